package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/autumn/internal/core"
	"github.com/tessro/autumn/internal/tui/styles"
)

// Media renders the now-playing line and the transport controls.
type Media struct{}

// NewMedia creates a media panel.
func NewMedia() *Media {
	return &Media{}
}

// Render renders v within width cells.
func (m *Media) Render(v core.NowPlayingView, width int, theme styles.Theme) string {
	trackStyle := theme.Playing
	if v.Button == core.ButtonPlay {
		trackStyle = theme.Paused
	}
	track := trackStyle.Render(styles.Truncate(v.Track, width))

	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		theme.Dim.Render("<<"),
		theme.Button.Render(v.Button),
		theme.Dim.Render(">>"),
	)

	lines := []string{track, controls}
	if v.Err != "" {
		lines = append(lines, theme.Error.Render(styles.Truncate(v.Err, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}
