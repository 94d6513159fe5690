package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of fall colors.
type Palette struct {
	Primary   lipgloss.Color // Pumpkin
	Secondary lipgloss.Color // Maple
	Accent    lipgloss.Color // Goldenrod
	Error     lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
}

var (
	Dark = Palette{
		Primary:   lipgloss.Color("#E8772E"),
		Secondary: lipgloss.Color("#B5412B"),
		Accent:    lipgloss.Color("#E0A526"),
		Error:     lipgloss.Color("#EF4444"),
		Border:    lipgloss.Color("#6B4F3A"),
		Text:      lipgloss.Color("#F5E6D3"),
		TextMuted: lipgloss.Color("#C4A484"),
		TextDim:   lipgloss.Color("#8A7060"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#B85412"),
		Secondary: lipgloss.Color("#8C2F1C"),
		Accent:    lipgloss.Color("#9A6B00"),
		Error:     lipgloss.Color("#B91C1C"),
		Border:    lipgloss.Color("#C4A484"),
		Text:      lipgloss.Color("#3B2418"),
		TextMuted: lipgloss.Color("#6B4F3A"),
		TextDim:   lipgloss.Color("#9C8270"),
	}
)

// Theme holds the rendered styles for one palette.
type Theme struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Dim      lipgloss.Style
	Clock    lipgloss.Style
	Playing  lipgloss.Style
	Paused   lipgloss.Style
	Button   lipgloss.Style
	Error    lipgloss.Style
	Leaf     lipgloss.Style
	Border   lipgloss.Style
}

// New builds a theme. "auto" picks by terminal background.
func New(name string) Theme {
	p := Dark
	switch name {
	case "light":
		p = Light
	case "auto", "":
		if !lipgloss.HasDarkBackground() {
			p = Light
		}
	}
	return FromPalette(p)
}

// FromPalette builds the styles for p.
func FromPalette(p Palette) Theme {
	return Theme{
		Palette:  p,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Subtitle: lipgloss.NewStyle().Foreground(p.TextMuted),
		Muted:    lipgloss.NewStyle().Foreground(p.TextMuted),
		Dim:      lipgloss.NewStyle().Foreground(p.TextDim),
		Clock:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Playing:  lipgloss.NewStyle().Foreground(p.Accent),
		Paused:   lipgloss.NewStyle().Foreground(p.TextMuted),
		Button: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Padding(0, 1),
		Error: lipgloss.NewStyle().Foreground(p.Error),
		Leaf:  lipgloss.NewStyle().Foreground(p.Secondary),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2),
	}
}

// Truncate shortens s to width cells, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// Repeat repeats a string n times
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
