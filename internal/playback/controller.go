// Package playback mirrors the music application's playback state from the
// results of automation commands.
package playback

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/autumn/internal/automation"
	"github.com/tessro/autumn/internal/core"
)

// Command names, used in logs.
const (
	CmdCurrentTrack = "current-track"
	CmdPlayerState  = "player-state"
	CmdToggle       = "toggle"
	CmdPrevious     = "previous"
	CmdNext         = "next"
)

// DefaultPollInterval is how often the current track is queried.
const DefaultPollInterval = 5 * time.Second

// Dispatcher runs a script and posts its result to the UI loop.
type Dispatcher interface {
	Dispatch(name, script string, onResult func(core.Result)) string
}

// Config holds controller configuration.
type Config struct {
	PollInterval   time.Duration
	PausedSentinel string
}

// Controller owns the PlaybackState. Its methods and the continuations it
// registers must only run on the UI loop; no locking is done.
type Controller struct {
	dispatcher Dispatcher
	sched      core.Scheduler
	scripts    automation.Scripts
	config     Config

	state     core.PlaybackState
	observers []func(core.PlaybackState)
	now       func() time.Time
}

// NewController creates a controller in the Unknown phase.
func NewController(d Dispatcher, sched core.Scheduler, scripts automation.Scripts, config Config) *Controller {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.PausedSentinel == "" {
		config.PausedSentinel = automation.PausedSentinel
	}
	return &Controller{
		dispatcher: d,
		sched:      sched,
		scripts:    scripts,
		config:     config,
		now:        time.Now,
	}
}

// Start polls once and then at every PollInterval until stop is called.
func (c *Controller) Start() (stop func()) {
	c.Poll()
	return c.sched.Every(c.config.PollInterval, func(time.Time) {
		c.Poll()
	})
}

// Subscribe registers fn to be called on the UI loop after every change.
func (c *Controller) Subscribe(fn func(core.PlaybackState)) {
	c.observers = append(c.observers, fn)
}

// State returns a copy of the current state.
func (c *Controller) State() core.PlaybackState {
	return c.state
}

// View returns the render mapping of the current state.
func (c *Controller) View() core.NowPlayingView {
	return c.state.View()
}

// Poll queries the current track. The result decides Playing or Paused and,
// when playing, the track label.
func (c *Controller) Poll() {
	c.dispatcher.Dispatch(CmdCurrentTrack, c.scripts.CurrentTrack, c.applyCurrentTrack)
}

// TogglePlayPause toggles playback, then queries the player state to update
// the play/pause affordance. The track label is left for the next poll.
func (c *Controller) TogglePlayPause() {
	c.dispatcher.Dispatch(CmdToggle, c.scripts.TogglePlayPause, func(res core.Result) {
		if !res.OK() {
			c.fail(CmdToggle, res)
			return
		}
		c.dispatcher.Dispatch(CmdPlayerState, c.scripts.PlayerState, c.applyPlayerState)
	})
}

// Previous skips back. Fire-and-forget.
func (c *Controller) Previous() {
	c.dispatcher.Dispatch(CmdPrevious, c.scripts.PreviousTrack, nil)
}

// Next skips ahead. Fire-and-forget.
func (c *Controller) Next() {
	c.dispatcher.Dispatch(CmdNext, c.scripts.NextTrack, nil)
}

func (c *Controller) applyCurrentTrack(res core.Result) {
	if !res.OK() {
		c.fail(CmdCurrentTrack, res)
		return
	}

	if res.Text == c.config.PausedSentinel {
		c.state.Phase = core.PhasePaused
		c.state.IsPlaying = false
	} else {
		c.state.Phase = core.PhasePlaying
		c.state.IsPlaying = true
		c.state.TrackLabel = res.Text
	}
	c.state.LastError = nil
	c.changed()
}

func (c *Controller) applyPlayerState(res core.Result) {
	if !res.OK() {
		c.fail(CmdPlayerState, res)
		return
	}

	if res.Text == automation.StatePlaying {
		c.state.Phase = core.PhasePlaying
		c.state.IsPlaying = true
	} else {
		c.state.Phase = core.PhasePaused
		c.state.IsPlaying = false
	}
	c.state.LastError = nil
	c.changed()
}

// fail records an interpreter failure without touching the mirrored phase
// or track label.
func (c *Controller) fail(cmd string, res core.Result) {
	zlog.Warn().Err(res.Err).Str("cmd", cmd).Str("id", res.CommandID).Msg("automation command failed")
	c.state.LastError = res.Err
	c.changed()
}

func (c *Controller) changed() {
	c.state.UpdatedAt = c.now()
	zlog.Debug().
		Str("phase", c.state.Phase.String()).
		Str("track", c.state.TrackLabel).
		Msg("playback state changed")
	for _, fn := range c.observers {
		fn(c.state)
	}
}
