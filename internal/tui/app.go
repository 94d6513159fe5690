package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/autumn/internal/core"
	"github.com/tessro/autumn/internal/tui/components"
	"github.com/tessro/autumn/internal/tui/styles"
	"github.com/tessro/autumn/internal/weather"
)

const (
	clockInterval         = time.Second
	defaultWeatherRefresh = 30 * time.Minute
	weatherTimeout        = 15 * time.Second
)

// Player is the playback surface the widget drives. Every method is called
// on the UI loop.
type Player interface {
	Start() (stop func())
	Poll()
	TogglePlayPause()
	Previous()
	Next()
	View() core.NowPlayingView
}

// Reporter fetches the current weather.
type Reporter interface {
	Report(ctx context.Context) (weather.Report, error)
}

// App holds the TUI application dependencies.
type App struct {
	Player         Player
	Scheduler      *Scheduler
	Weather        Reporter // nil disables the weather panel
	WeatherRefresh time.Duration
	Location       *time.Location
	ClockFormat    string
	Theme          string
	HideLeaves     bool

	stopPolling func()
}

// Model is the main TUI model
type Model struct {
	app    *App
	width  int
	height int

	theme styles.Theme
	keys  keyMap
	help  help.Model

	// Components
	clock   *components.Clock
	weather *components.Weather
	media   *components.Media
	leaves  *components.Leaves

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	if app.WeatherRefresh <= 0 {
		app.WeatherRefresh = defaultWeatherRefresh
	}
	theme := styles.New(app.Theme)

	h := help.New()
	h.Styles.ShortKey = theme.Muted
	h.Styles.ShortDesc = theme.Dim
	h.Styles.FullKey = theme.Muted
	h.Styles.FullDesc = theme.Dim

	return Model{
		app:     app,
		theme:   theme,
		keys:    defaultKeyMap(),
		help:    h,
		clock:   components.NewClock(app.Location, app.ClockFormat),
		weather: components.NewWeather(),
		media:   components.NewMedia(),
		leaves:  components.NewLeaves(app.HideLeaves),
	}
}

// Messages
type clockTickMsg time.Time
type weatherTickMsg time.Time
type weatherMsg struct {
	report weather.Report
	err    error
}

// Commands
func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) weatherTick() tea.Cmd {
	return tea.Tick(m.app.WeatherRefresh, func(t time.Time) tea.Msg {
		return weatherTickMsg(t)
	})
}

func (m Model) fetchWeather() tea.Cmd {
	if m.app.Weather == nil {
		return nil
	}
	reporter := m.app.Weather
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), weatherTimeout)
		defer cancel()

		r, err := reporter.Report(ctx)
		return weatherMsg{report: r, err: err}
	}
}

// Init starts polling and the periodic commands. It runs on the UI loop.
func (m Model) Init() tea.Cmd {
	m.clock.Set(time.Now())
	m.app.stopPolling = m.app.Player.Start()

	cmds := []tea.Cmd{clockTick(), m.leaves.Init()}
	if m.app.Weather != nil {
		cmds = append(cmds, m.fetchWeather(), m.weatherTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg.fn()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clockTickMsg:
		m.clock.Set(time.Time(msg))
		return m, clockTick()

	case weatherTickMsg:
		return m, tea.Batch(m.fetchWeather(), m.weatherTick())

	case weatherMsg:
		if msg.err != nil {
			zlog.Warn().Err(msg.err).Msg("weather unavailable")
		}
		m.weather.Set(msg.report, msg.err)
		return m, nil

	case spinner.TickMsg:
		return m, m.leaves.Update(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.app.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.app.Player.TogglePlayPause()
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.app.Player.Previous()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.app.Player.Next()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.app.Player.Poll()
		return m, m.fetchWeather()
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width - 8
	if width < 20 {
		width = 40
	}

	sections := []string{
		m.clock.Render(m.theme),
	}
	if m.app.Weather != nil {
		sections = append(sections, m.weather.Render(m.theme))
	}
	sections = append(sections,
		"",
		m.media.Render(m.app.Player.View(), width, m.theme),
	)
	if leaves := m.leaves.Render(m.theme); leaves != "" {
		sections = append(sections, "", leaves)
	}

	card := m.theme.Border.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
	body := lipgloss.JoinVertical(lipgloss.Center, card, m.help.View(m.keys))

	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (a *App) stop() {
	if a.stopPolling != nil {
		a.stopPolling()
		a.stopPolling = nil
	}
}

// Run starts the TUI application
func Run(ctx context.Context, app *App) error {
	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	app.Scheduler.Attach(p.Send)
	defer app.Scheduler.Stop()
	defer app.stop()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
