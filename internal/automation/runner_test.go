package automation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autumnerrors "github.com/tessro/autumn/internal/errors"
)

func shell(t *testing.T) *ExecRunner {
	t.Helper()
	r := NewExecRunner("sh", []string{"-c"})
	if !r.Available() {
		t.Skip("sh not available")
	}
	return r
}

func TestExecRunner_Stdout(t *testing.T) {
	r := shell(t)

	out, err := r.Execute(context.Background(), "echo playing")
	require.NoError(t, err)
	assert.Equal(t, "playing\n", out.Stdout)
	assert.Equal(t, 0, out.ExitCode)
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	r := shell(t)

	out, err := r.Execute(context.Background(), "echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, "", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)
	assert.Equal(t, 3, out.ExitCode)
}

func TestExecRunner_MissingInterpreter(t *testing.T) {
	r := NewExecRunner("autumn-no-such-interpreter", []string{"-e"})
	assert.False(t, r.Available())

	_, err := r.Execute(context.Background(), "return 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, autumnerrors.ErrInterpreterNotFound))
}

func TestExecRunner_ContextTimeout(t *testing.T) {
	r := shell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Execute(ctx, "sleep 5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewExecRunner_Defaults(t *testing.T) {
	r := NewExecRunner("", nil)
	assert.Equal(t, DefaultInterpreter, r.Interpreter)
	assert.Equal(t, []string{"-e"}, r.Args)
}

func TestNewScripts(t *testing.T) {
	s := NewScripts("Spotify", "")

	assert.Equal(t, "Spotify", s.App)
	assert.True(t, strings.HasPrefix(s.CurrentTrack, `tell application "Spotify"`))
	assert.Contains(t, s.CurrentTrack, `return "Paused"`)
	assert.Contains(t, s.CurrentTrack, `(get artist of current track) & " - " & (get name of current track)`)
	assert.Equal(t, `tell application "Spotify" to return player state`, s.PlayerState)
	assert.Contains(t, s.TogglePlayPause, "pause")
	assert.Contains(t, s.TogglePlayPause, "play")
	assert.Equal(t, `tell application "Spotify" to previous track`, s.PreviousTrack)
	assert.Equal(t, `tell application "Spotify" to next track`, s.NextTrack)

	music := NewScripts("Music", "Stopped")
	assert.Contains(t, music.CurrentTrack, `tell application "Music"`)
	assert.Contains(t, music.CurrentTrack, `return "Stopped"`)
}
