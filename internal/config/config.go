package config

import (
	"os"
	"path/filepath"
	"strconv"
	_ "time/tzdata" // clock.timezone must resolve without a system zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// FileName is the dotfile looked up in the home directory.
const FileName = ".autumnrc"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.autumnrc, $XDG_CONFIG_HOME/autumn/config.toml, ~/.config/autumn/config.toml
func Load() (*Config, error) {
	cfg := Default()

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	return finish(cfg)
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return finish(cfg)
}

// finish applies environment overrides. The file is decoded over Default(),
// so an explicit zero in the file (dispatch.timeout = 0) is kept.
func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath returns where 'config init' writes a new file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Path returns the config file Load would read, or "" if none exists.
func Path() string {
	return findConfigFile()
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, FileName),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "autumn", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Player
	if v := os.Getenv("AUTUMN_PLAYER_APP"); v != "" {
		cfg.Player.App = v
	}
	if v := os.Getenv("AUTUMN_PLAYER_INTERPRETER"); v != "" {
		cfg.Player.Interpreter = v
	}
	if v := os.Getenv("AUTUMN_PLAYER_POLL_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Player.PollInterval = i
		}
	}

	// Dispatch
	if v := os.Getenv("AUTUMN_DISPATCH_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Dispatch.Workers = i
		}
	}
	if v := os.Getenv("AUTUMN_DISPATCH_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Dispatch.Timeout = i
		}
	}

	// Weather
	if v := os.Getenv("AUTUMN_WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" && cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("AUTUMN_WEATHER_UNITS"); v != "" {
		cfg.Weather.Units = v
	}

	// Clock
	if v := os.Getenv("AUTUMN_CLOCK_TIMEZONE"); v != "" {
		cfg.Clock.Timezone = v
	}

	// TUI
	if v := os.Getenv("AUTUMN_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("AUTUMN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AUTUMN_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
