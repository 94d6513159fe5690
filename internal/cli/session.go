package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/config"
	"github.com/tessro/autumn/internal/core"
	"github.com/tessro/autumn/internal/dispatch"
	"github.com/tessro/autumn/internal/playback"
	"github.com/tessro/autumn/internal/uiloop"
	"github.com/tessro/autumn/internal/weather"
)

// session wires a dispatcher and a controller to a scheduler. The one-shot
// commands use a uiloop.Loop; the widget uses the bubbletea scheduler.
type session struct {
	scripts    automation.Scripts
	dispatcher *dispatch.Dispatcher
	controller *playback.Controller
}

func newRunner(c *config.Config) automation.Runner {
	return automation.NewExecRunner(c.Player.Interpreter, c.Player.InterpreterArgs)
}

func newScripts(c *config.Config) automation.Scripts {
	return automation.NewScripts(c.Player.App, c.Player.PausedSentinel)
}

func newSession(ctx context.Context, c *config.Config, runner automation.Runner, sched core.Scheduler) *session {
	d := dispatch.New(runner, sched, dispatch.Options{
		Workers:   c.Dispatch.Workers,
		QueueSize: c.Dispatch.QueueSize,
		Timeout:   time.Duration(c.Dispatch.Timeout) * time.Second,
	})
	d.Start(ctx)

	scripts := newScripts(c)
	return &session{
		scripts:    scripts,
		dispatcher: d,
		controller: playback.NewController(d, sched, scripts, playback.Config{
			PollInterval:   time.Duration(c.Player.PollInterval) * time.Second,
			PausedSentinel: c.Player.PausedSentinel,
		}),
	}
}

func (s *session) Close() {
	s.dispatcher.Close()
}

// commandTimeout bounds a one-shot command that waits for one or two results.
func commandTimeout(c *config.Config) time.Duration {
	t := time.Duration(c.Dispatch.Timeout) * time.Second
	if t <= 0 {
		t = dispatch.DefaultTimeout
	}
	return 2*t + time.Second
}

// awaitState runs a loop until the controller reports its first change
// after start is called on the loop.
func awaitState(ctx context.Context, c *config.Config, start func(*session)) (core.PlaybackState, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout(c))
	defer cancel()

	loop := uiloop.New()
	s := newSession(ctx, c, newRunner(c), loop)
	defer s.Close()

	var (
		state core.PlaybackState
		got   bool
	)
	loop.Post(func() {
		s.controller.Subscribe(func(st core.PlaybackState) {
			if got {
				return
			}
			state, got = st, true
			cancel()
		})
		start(s)
	})

	err := loop.Run(ctx)
	if got {
		return state, nil
	}
	return state, err
}

// awaitResult dispatches one script and waits for its result on a loop.
func awaitResult(ctx context.Context, c *config.Config, name string, script func(automation.Scripts) string) (core.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout(c))
	defer cancel()

	loop := uiloop.New()
	s := newSession(ctx, c, newRunner(c), loop)
	defer s.Close()

	var (
		res core.Result
		got bool
	)
	loop.Post(func() {
		s.dispatcher.Dispatch(name, script(s.scripts), func(r core.Result) {
			res, got = r, true
			cancel()
		})
	})

	err := loop.Run(ctx)
	if got {
		return res, nil
	}
	return res, err
}

func newWeatherService(c *config.Config) *weather.Service {
	timeout := time.Duration(c.Weather.Timeout) * time.Second
	fallback := weather.Location{
		City:      c.Weather.FallbackCity,
		Latitude:  c.Weather.FallbackLat,
		Longitude: c.Weather.FallbackLon,
	}
	return weather.NewService(
		weather.NewLocator(fallback, &http.Client{Timeout: timeout}),
		weather.NewClient(c.Weather.APIKey, c.Weather.Units, timeout),
	)
}
