package config

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	cfg := &Config{}
	// defaults.Set only fails on malformed tags
	if err := cfg.ApplyDefaults(); err != nil {
		panic(err)
	}
	return cfg
}

// ApplyDefaults fills in zero values from the struct tags. Values that are
// legitimately zero are overwritten, so decode files over Default() instead.
func (c *Config) ApplyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	return nil
}
