package tail

import (
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/autumn/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventPause
	EventResume
	EventError
	EventRecovered
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// Watcher turns a stream of controller states into events. Feed it with
// Controller.Subscribe(w.Observe).
type Watcher struct {
	events chan Event
	now    func() time.Time

	mu       sync.Mutex
	prev     *core.PlaybackState
	prevHash uint64
	closed   bool
}

// NewWatcher creates a new state watcher. Events that do not fit in the
// buffer are dropped.
func NewWatcher(buffer int) *Watcher {
	if buffer <= 0 {
		buffer = 16
	}
	return &Watcher{
		events: make(chan Event, buffer),
		now:    time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Observe records a new state and emits the events it implies.
func (w *Watcher) Observe(state core.PlaybackState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	curr := state
	hash, err := fingerprint(&curr)
	if err != nil {
		zlog.Debug().Err(err).Msg("tail: hashing state")
	} else if w.prev != nil && hash == w.prevHash {
		return
	}

	for _, e := range diffStates(w.prev, &curr, w.now()) {
		select {
		case w.events <- e:
		default:
			// Drop event if channel is full
		}
	}

	w.prev = &curr
	w.prevHash = hash
}

// Close stops the watcher and closes the events channel.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
}

// fingerprint hashes the parts of a state that produce events.
func fingerprint(s *core.PlaybackState) (uint64, error) {
	v := struct {
		Phase      core.Phase
		IsPlaying  bool
		TrackLabel string
		Err        string
	}{
		Phase:      s.Phase,
		IsPlaying:  s.IsPlaying,
		TrackLabel: s.TrackLabel,
	}
	if s.LastError != nil {
		v.Err = s.LastError.Error()
	}
	return hashstructure.Hash(v, hashstructure.FormatV2, nil)
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First state - no previous
	if prev == nil {
		switch {
		case curr.LastError != nil:
			emit(EventError)
		case curr.HasTrack():
			emit(EventTrackChange)
		case curr.Phase == core.PhasePaused:
			emit(EventPause)
		}
		return events
	}

	if curr.LastError != nil && !sameError(prev.LastError, curr.LastError) {
		emit(EventError)
	} else if prev.LastError != nil && curr.LastError == nil {
		emit(EventRecovered)
	}

	if curr.HasTrack() && curr.TrackLabel != prev.TrackLabel {
		emit(EventTrackChange)
	}

	// Pause/Resume detection
	if prev.IsPlaying && !curr.IsPlaying {
		emit(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying && prev.Phase != core.PhaseUnknown {
		emit(EventResume)
	} else if prev.Phase == core.PhaseUnknown && curr.Phase == core.PhasePaused {
		emit(EventPause)
	}

	return events
}

func sameError(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Error() == b.Error()
}
