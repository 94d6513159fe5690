package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/browser"
	autumnerrors "github.com/tessro/autumn/internal/errors"
)

// apiKeysURL is where OpenWeatherMap issues API keys.
const apiKeysURL = "https://home.openweathermap.org/api_keys"

var weatherSignup bool

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the current weather",
	Long: `Locate this machine by IP and print the current conditions from
OpenWeatherMap. Needs weather.api_key or OPENWEATHER_API_KEY.`,
	RunE: runWeather,
}

func init() {
	weatherCmd.Flags().BoolVar(&weatherSignup, "signup", false, "open the OpenWeatherMap API key page")
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	if weatherSignup {
		fmt.Printf("Opening %s\n", apiKeysURL)
		return browser.Open(apiKeysURL)
	}

	if cfg.Weather.Disabled {
		return autumnerrors.WithSuggestion(
			errors.New("weather is disabled"),
			"Run: autumn config set weather.disabled false",
		)
	}

	report, err := newWeatherService(cfg).Report(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(report)
	}

	fmt.Println(report.Summary())
	if Verbose() {
		fmt.Println(paint(dimStyle, fmt.Sprintf("location via %s (%.4f, %.4f)",
			report.Location.Source, report.Location.Latitude, report.Location.Longitude)))
	}
	return nil
}
