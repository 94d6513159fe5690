package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Spotify", cfg.Player.App)
	assert.Equal(t, "osascript", cfg.Player.Interpreter)
	assert.Equal(t, []string{"-e"}, cfg.Player.InterpreterArgs)
	assert.Equal(t, 5, cfg.Player.PollInterval)
	assert.Equal(t, "Paused", cfg.Player.PausedSentinel)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 32, cfg.Dispatch.QueueSize)
	assert.Equal(t, 10, cfg.Dispatch.Timeout)
	assert.Equal(t, "imperial", cfg.Weather.Units)
	assert.Equal(t, 30, cfg.Weather.RefreshInterval)
	assert.Equal(t, "San Francisco", cfg.Weather.FallbackCity)
	assert.InDelta(t, 37.7749, cfg.Weather.FallbackLat, 1e-9)
	assert.InDelta(t, -122.4194, cfg.Weather.FallbackLon, 1e-9)
	assert.Equal(t, "America/Los_Angeles", cfg.Clock.Timezone)
	assert.Equal(t, "3:04pm", cfg.Clock.Format)
	assert.Equal(t, "auto", cfg.TUI.Theme)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[player]
app = "Music"
poll_interval = 2

[dispatch]
workers = 2

[weather]
units = "metric"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "Music", cfg.Player.App)
	assert.Equal(t, 2, cfg.Player.PollInterval)
	assert.Equal(t, "osascript", cfg.Player.Interpreter, "unset keys take defaults")
	assert.Equal(t, 2, cfg.Dispatch.Workers)
	assert.Equal(t, 32, cfg.Dispatch.QueueSize)
	assert.Equal(t, "metric", cfg.Weather.Units)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_ExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[dispatch]
timeout = 0

[weather]
fallback_city = "Null Island"
fallback_lat = 0
fallback_lon = 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Dispatch.Timeout, "zero disables the timeout")
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, "Null Island", cfg.Weather.FallbackCity)
	assert.Zero(t, cfg.Weather.FallbackLat)
	assert.Zero(t, cfg.Weather.FallbackLon)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides_DispatchTimeout(t *testing.T) {
	t.Setenv("AUTUMN_DISPATCH_TIMEOUT", "0")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[dispatch]\ntimeout = 30\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Dispatch.Timeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[player\napp = 1"), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTUMN_PLAYER_APP", "Music")
	t.Setenv("AUTUMN_PLAYER_POLL_INTERVAL", "9")
	t.Setenv("AUTUMN_WEATHER_API_KEY", "secret")
	t.Setenv("AUTUMN_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "Music", cfg.Player.App)
	assert.Equal(t, 9, cfg.Player.PollInterval)
	assert.Equal(t, "secret", cfg.Weather.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"poll interval too large", func(c *Config) { c.Player.PollInterval = 7200 }, "player.poll_interval"},
		{"too many workers", func(c *Config) { c.Dispatch.Workers = 100 }, "dispatch.workers"},
		{"negative timeout", func(c *Config) { c.Dispatch.Timeout = -1 }, "dispatch.timeout"},
		{"bad units", func(c *Config) { c.Weather.Units = "kelvin" }, "weather.units"},
		{"bad latitude", func(c *Config) { c.Weather.FallbackLat = 91 }, "weather.fallback_lat"},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, "tui.theme"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad timezone", func(c *Config) { c.Clock.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"empty app", func(c *Config) { c.Player.App = "" }, "player.app: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClockLocation(t *testing.T) {
	c := ClockConfig{}
	assert.Equal(t, "Local", c.Location().String())

	c.Timezone = "Europe/Paris"
	assert.Equal(t, "Europe/Paris", c.Location().String())

	c.Timezone = "nowhere"
	assert.Equal(t, "Local", c.Location().String())
}
