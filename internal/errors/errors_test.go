package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"interpreter missing", ErrInterpreterNotFound, "osascript"},
		{"exec lookup", fmt.Errorf(`exec: "osascript": executable file not found in $PATH`), "osascript"},
		{"app not running", fmt.Errorf("execution error: Spotify got an error: Application isn't running. (-600)"), "Open the music application"},
		{"not authorized", fmt.Errorf("Not authorized to send Apple events to Spotify. (-1743)"), "Automation"},
		{"busy", errors.Wrap(ErrDispatcherBusy, "toggle"), "in flight"},
		{"weather key", ErrWeatherKeyMissing, "weather.api_key"},
		{"network", fmt.Errorf("dial tcp: connection refused"), "internet connection"},
		{"config", ErrInvalidConfig, "config init"},
		{"unknown", fmt.Errorf("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	base := fmt.Errorf("boom")
	err := WithSuggestion(base, "try again")

	if got := GetSuggestion(err); got != "try again" {
		t.Errorf("GetSuggestion() = %q, want %q", got, "try again")
	}
	if !errors.Is(err, base) {
		t.Error("WithSuggestion() should unwrap to the original error")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(fmt.Errorf("odd"))
	if got != "Error: odd" {
		t.Errorf("Format() = %q, want %q", got, "Error: odd")
	}

	got = Format(ErrDispatcherBusy)
	if !strings.HasPrefix(got, "Error: dispatcher busy\n\nSuggestion: ") {
		t.Errorf("Format() = %q, missing suggestion", got)
	}
}

func TestFromStderr(t *testing.T) {
	tests := []struct {
		stderr string
		target error
		want   string
	}{
		{"execution error: Spotify got an error: Application isn't running. (-600)\n", ErrAppNotRunning, "execution error: Spotify got an error: Application isn't running. (-600)"},
		{"execution error: Not authorized to send Apple events to Spotify. (-1743)", ErrNotAuthorized, "execution error: Not authorized to send Apple events to Spotify. (-1743)"},
		{"", nil, "script failed"},
	}

	for _, tt := range tests {
		err := FromStderr(tt.stderr)
		if err.Error() != tt.want {
			t.Errorf("FromStderr(%q) = %q, want %q", tt.stderr, err.Error(), tt.want)
		}
		if tt.target != nil && !errors.Is(err, tt.target) {
			t.Errorf("FromStderr(%q) is not %v", tt.stderr, tt.target)
		}
	}
}
