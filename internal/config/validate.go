package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report TOML key paths instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fieldError(fe))
			}
		} else {
			errs = append(errs, err)
		}
	}
	if err := c.Clock.Validate(); err != nil {
		errs = append(errs, errors.Wrap(err, "clock"))
	}

	return errors.Join(errs...)
}

// Validate checks ClockConfig for errors.
func (c *ClockConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Newf("invalid timezone %q: %v", c.Timezone, err)
	}
	return nil
}

// Location returns the configured time zone, or time.Local when unset.
func (c *ClockConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// fieldError renders a validator failure using the TOML key path.
func fieldError(fe validator.FieldError) error {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	key := ns
	switch fe.Tag() {
	case "required":
		return errors.Newf("%s: is required", key)
	case "oneof":
		return errors.Newf("%s: must be one of %s", key, fe.Param())
	case "gte":
		return errors.Newf("%s: must be >= %s", key, fe.Param())
	case "lte":
		return errors.Newf("%s: must be <= %s", key, fe.Param())
	default:
		return errors.Newf("%s: failed %s validation", key, fe.Tag())
	}
}
