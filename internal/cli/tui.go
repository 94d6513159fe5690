package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui", "widget"},
	Short:   "Launch the widget",
	Long: `Launch the autumn widget: clock, weather and now playing.

Keyboard shortcuts:
  Space, Enter  Play/Pause
  p, ←          Previous track
  n, →          Next track
  r             Refresh
  ?             Help
  q, Ctrl+C     Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sched := tui.NewScheduler()
	s := newSession(ctx, cfg, newRunner(cfg), sched)
	defer s.Close()

	app := &tui.App{
		Player:         s.controller,
		Scheduler:      sched,
		WeatherRefresh: time.Duration(cfg.Weather.RefreshInterval) * time.Minute,
		Location:       cfg.Clock.Location(),
		ClockFormat:    cfg.Clock.Format,
		Theme:          cfg.TUI.Theme,
		HideLeaves:     cfg.TUI.HideLeaves,
	}
	if !cfg.Weather.Disabled {
		app.Weather = newWeatherService(cfg)
	}

	return tui.Run(ctx, app)
}
