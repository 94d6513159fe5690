package tail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is an
// error so the command can report it.
func WithTemplate(tmpl string) (FormatterOption, error) {
	if tmpl == "" {
		return func(*Formatter) {}, nil
	}
	t, err := template.New("format").Parse(tmpl)
	if err != nil {
		return nil, err
	}
	return func(f *Formatter) {
		f.template = t
	}, nil
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, newRecord(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

// record is the template and JSON view of an event.
type record struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	Ago       string    `json:"-"`
	Track     string    `json:"track,omitempty"`
	Playing   bool      `json:"playing"`
	Error     string    `json:"error,omitempty"`
}

func newRecord(e Event) record {
	r := record{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Ago:       humanize.Time(e.Timestamp),
	}
	if e.Current != nil {
		r.Playing = e.Current.IsPlaying
		if e.Current.IsPlaying {
			r.Track = e.Current.TrackLabel
		}
		if e.Current.LastError != nil {
			r.Error = e.Current.LastError.Error()
		}
	}
	return r
}

// JSON returns the event as a single JSON line.
func JSON(e Event) ([]byte, error) {
	return json.Marshal(newRecord(e))
}

// eventDescription returns a human-readable description of the event.
func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current != nil && e.Current.TrackLabel != "" {
			return fmt.Sprintf("Now playing: %s", e.Current.TrackLabel)
		}
		return "Track changed"

	case EventPause:
		return "Paused"

	case EventResume:
		if e.Current != nil && e.Current.TrackLabel != "" {
			return fmt.Sprintf("Resumed: %s", e.Current.TrackLabel)
		}
		return "Resumed"

	case EventError:
		if e.Current != nil && e.Current.LastError != nil {
			return fmt.Sprintf("Error: %s", e.Current.LastError)
		}
		return "Error"

	case EventRecovered:
		return "Recovered"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventError:
		return "⚠️"
	case EventRecovered:
		return "✅"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventError:
		return "error"
	case EventRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}
