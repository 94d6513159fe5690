package components

import (
	"github.com/tessro/autumn/internal/tui/styles"
	"github.com/tessro/autumn/internal/weather"
)

// Weather shows the last weather report.
type Weather struct {
	report  *weather.Report
	err     error
	loading bool
}

// NewWeather creates an empty weather panel.
func NewWeather() *Weather {
	return &Weather{loading: true}
}

// Set stores a report. err explains a fallback report.
func (w *Weather) Set(r weather.Report, err error) {
	w.report = &r
	w.err = err
	w.loading = false
}

// Report returns the last report, if any.
func (w *Weather) Report() (weather.Report, bool) {
	if w.report == nil {
		return weather.Report{}, false
	}
	return *w.report, true
}

// Render renders the summary line and a dim "updated" line.
func (w *Weather) Render(theme styles.Theme) string {
	if w.report == nil {
		if w.loading {
			return theme.Dim.Render("Fetching weather...")
		}
		return ""
	}

	line := theme.Title.Render(w.report.Summary())
	age := w.report.Age()
	if w.report.Fallback {
		age = "unavailable"
	}
	if age != "" {
		line += "\n" + theme.Dim.Render("updated "+age)
	}
	return line
}
