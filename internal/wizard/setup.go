package wizard

import (
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	"github.com/tessro/autumn/internal/config"
)

// Players offered by the setup form. Both expose the same scripting
// dictionary for playback.
var Players = []string{"Spotify", "Music"}

// RunSetup asks for the settings most people change and writes them into
// cfg. Fields not asked about keep their values.
func RunSetup(cfg *config.Config) error {
	app := cfg.Player.App
	timezone := cfg.Clock.Timezone
	units := cfg.Weather.Units
	apiKey := cfg.Weather.APIKey
	poll := strconv.Itoa(cfg.Player.PollInterval)
	weatherOn := !cfg.Weather.Disabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Music application").
				Options(huh.NewOptions(Players...)...).
				Value(&app),
			huh.NewInput().
				Title("Poll interval (seconds)").
				Value(&poll).
				Validate(validPollInterval),
			huh.NewInput().
				Title("Clock timezone").
				Description("IANA name, e.g. America/Los_Angeles").
				Value(&timezone).
				Validate(validTimezone),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show the weather?").
				Value(&weatherOn),
			huh.NewSelect[string]().
				Title("Units").
				Options(
					huh.NewOption("Fahrenheit", "imperial"),
					huh.NewOption("Celsius", "metric"),
				).
				Value(&units),
			huh.NewInput().
				Title("OpenWeatherMap API key").
				Description("Leave empty to use OPENWEATHER_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
		),
	)

	if err := form.Run(); err != nil {
		return errors.Wrap(err, "setup cancelled")
	}

	cfg.Player.App = app
	cfg.Player.PollInterval, _ = strconv.Atoi(poll)
	cfg.Clock.Timezone = timezone
	cfg.Weather.Disabled = !weatherOn
	cfg.Weather.Units = units
	cfg.Weather.APIKey = apiKey
	return nil
}

func validPollInterval(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 3600 {
		return errors.New("enter a number of seconds between 1 and 3600")
	}
	return nil
}

func validTimezone(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return errors.Newf("unknown timezone %q", s)
	}
	return nil
}
