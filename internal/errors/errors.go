package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Error types for common failure scenarios.
var (
	ErrInterpreterNotFound = errors.New("automation interpreter not found")
	ErrAppNotRunning       = errors.New("application is not running")
	ErrNotAuthorized       = errors.New("not authorized to send apple events")
	ErrDispatcherBusy      = errors.New("dispatcher busy")
	ErrDispatcherClosed    = errors.New("dispatcher closed")
	ErrWeatherKeyMissing   = errors.New("weather api key not configured")
	ErrNetworkError        = errors.New("network error")
	ErrTimeout             = errors.New("request timeout")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// AutumnError wraps an error with a user-friendly suggestion.
type AutumnError struct {
	Err        error
	Suggestion string
}

func (e *AutumnError) Error() string {
	return e.Err.Error()
}

func (e *AutumnError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &AutumnError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// FromStderr turns interpreter error output into an error, marked with the
// matching sentinel when the failure is a known one.
func FromStderr(stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = "script failed"
	}
	err := errors.New(msg)
	switch {
	case strings.Contains(msg, "(-600)"):
		return errors.Mark(err, ErrAppNotRunning)
	case strings.Contains(msg, "(-1743)"):
		return errors.Mark(err, ErrNotAuthorized)
	}
	return err
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var autumnErr *AutumnError
	if errors.As(err, &autumnErr) && autumnErr.Suggestion != "" {
		return autumnErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Interpreter errors
	if errors.Is(err, ErrInterpreterNotFound) || strings.Contains(errStr, "executable file not found") {
		return "autumn drives the player with osascript, which is only available on macOS"
	}

	// osascript reports -600 when the target application is not running
	if errors.Is(err, ErrAppNotRunning) || strings.Contains(errStr, "(-600)") ||
		strings.Contains(errStr, "isn't running") {
		return "Open the music application and try again"
	}

	// -1743: the user has not granted automation permission
	if errors.Is(err, ErrNotAuthorized) || strings.Contains(errStr, "(-1743)") ||
		strings.Contains(errStr, "not authorized") {
		return "Allow your terminal to control the application in System Settings > Privacy & Security > Automation"
	}

	if errors.Is(err, ErrDispatcherBusy) {
		return "Too many commands in flight. Wait a moment or raise dispatch.queue_size"
	}

	if errors.Is(err, ErrWeatherKeyMissing) {
		return "Set weather.api_key in ~/.autumnrc or AUTUMN_WEATHER_API_KEY (get one with 'autumn weather --signup')"
	}

	// Network errors
	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'autumn config init' to set up your configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
