package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/autumn/internal/tui/styles"
)

// Falling is a spinner whose frames drift leaves across a short line.
var Falling = spinner.Spinner{
	Frames: []string{
		"🍂      🍁   ",
		" 🍂      🍁  ",
		"  🍂  🍁     ",
		"   🍁  🍂    ",
		"    🍁   🍂  ",
		"  🍁       🍂",
		"🍁    🍂     ",
	},
	FPS: 400 * time.Millisecond,
}

// Leaves is the background animation.
type Leaves struct {
	spinner spinner.Model
	hidden  bool
}

// NewLeaves creates the animation. A hidden animation never ticks.
func NewLeaves(hidden bool) *Leaves {
	return &Leaves{
		spinner: spinner.New(spinner.WithSpinner(Falling)),
		hidden:  hidden,
	}
}

// Init starts the animation.
func (l *Leaves) Init() tea.Cmd {
	if l.hidden {
		return nil
	}
	return l.spinner.Tick
}

// Update advances the animation.
func (l *Leaves) Update(msg spinner.TickMsg) tea.Cmd {
	if l.hidden {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// Render renders the current frame.
func (l *Leaves) Render(theme styles.Theme) string {
	if l.hidden {
		return ""
	}
	return theme.Leaf.Render(l.spinner.View())
}
