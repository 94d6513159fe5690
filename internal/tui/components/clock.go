package components

import (
	"strings"
	"time"

	"github.com/tessro/autumn/internal/tui/styles"
)

// DefaultClockFormat renders e.g. "9:41am".
const DefaultClockFormat = "3:04pm"

// Clock shows the time in a fixed zone.
type Clock struct {
	Location *time.Location
	Format   string
	now      time.Time
}

// NewClock creates a clock for loc.
func NewClock(loc *time.Location, format string) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if format == "" {
		format = DefaultClockFormat
	}
	return &Clock{Location: loc, Format: format}
}

// Set records the current time.
func (c *Clock) Set(t time.Time) {
	c.now = t
}

// Text returns the formatted time, lowercase and without a leading zero.
func (c *Clock) Text() string {
	if c.now.IsZero() {
		return ""
	}
	s := strings.ToLower(c.now.In(c.Location).Format(c.Format))
	return strings.TrimPrefix(s, "0")
}

// Render renders the clock.
func (c *Clock) Render(theme styles.Theme) string {
	return theme.Clock.Render(c.Text())
}
