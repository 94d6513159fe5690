package core

import "time"

// Phase is the coarse playback phase mirrored from the music application.
type Phase int

const (
	PhaseUnknown Phase = iota // No poll has completed yet
	PhasePlaying
	PhasePaused
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Render labels for the play/pause affordance and the paused track text.
const (
	ButtonPlay  = "[PLAY]"
	ButtonPause = "[PAUSED]"
	PausedText  = "Paused"
)

// PlaybackState is the best-effort mirror of the player's state.
//
// TrackLabel is only meaningful while IsPlaying is true. It is kept while
// paused so a resume can show the last known track until the next poll.
type PlaybackState struct {
	Phase      Phase     `json:"phase"`
	IsPlaying  bool      `json:"is_playing"`
	TrackLabel string    `json:"track"`
	LastError  error     `json:"-"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasTrack returns true if there is a track label to show.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.IsPlaying && s.TrackLabel != ""
}

// NowPlayingView is what the media controls render.
type NowPlayingView struct {
	Button string `json:"button"`
	Track  string `json:"track"`
	Err    string `json:"error,omitempty"`
}

// View maps the state onto the media control labels.
func (s PlaybackState) View() NowPlayingView {
	var v NowPlayingView
	switch s.Phase {
	case PhasePlaying:
		v.Button = ButtonPause
		v.Track = s.TrackLabel
	case PhasePaused:
		v.Button = ButtonPlay
		v.Track = PausedText
	default:
		v.Button = ButtonPlay
	}
	if s.LastError != nil {
		v.Err = s.LastError.Error()
	}
	return v
}
