package weather

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	zlog "github.com/rs/zerolog/log"

	autumnerrors "github.com/tessro/autumn/internal/errors"
)

// OpenWeatherURL is the current weather endpoint.
const OpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// Condition is a coarse weather category.
type Condition string

const (
	Sunny   Condition = "sunny"
	Rainy   Condition = "rainy"
	Cloudy  Condition = "cloudy"
	Snowy   Condition = "snowy"
	Thunder Condition = "thunder"
)

// Glyph returns a terminal-friendly symbol for the condition.
func (c Condition) Glyph() string {
	switch c {
	case Rainy:
		return "☂"
	case Cloudy:
		return "☁"
	case Snowy:
		return "❄"
	case Thunder:
		return "⚡"
	default:
		return "☀"
	}
}

// Classify maps an OpenWeatherMap "main" field onto a Condition.
func Classify(main string) Condition {
	switch strings.ToLower(main) {
	case "clear":
		return Sunny
	case "rain", "drizzle":
		return Rainy
	case "clouds":
		return Cloudy
	case "snow":
		return Snowy
	case "thunderstorm":
		return Thunder
	default:
		return Sunny
	}
}

// FallbackTemperature is reported when current conditions are unavailable.
const FallbackTemperature = 72

// Report is the current weather at a location.
type Report struct {
	Location    Location  `json:"location"`
	Condition   Condition `json:"condition"`
	Temperature int       `json:"temperature"`
	Units       string    `json:"units"`
	Fallback    bool      `json:"fallback"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Fallback returns the report shown when the weather cannot be fetched.
func Fallback(loc Location, units string) Report {
	return Report{
		Location:    loc,
		Condition:   Sunny,
		Temperature: FallbackTemperature,
		Units:       units,
		Fallback:    true,
		FetchedAt:   time.Now(),
	}
}

// UnitSymbol returns °F or °C.
func (r Report) UnitSymbol() string {
	if r.Units == "metric" {
		return "°C"
	}
	return "°F"
}

// Summary returns e.g. "☀ 72°F San Francisco".
func (r Report) Summary() string {
	s := r.Condition.Glyph() + " " + strconv.Itoa(r.Temperature) + r.UnitSymbol()
	if r.Location.City != "" {
		s += " " + r.Location.City
	}
	return s
}

// Age returns how long ago the report was fetched, e.g. "3 minutes ago".
func (r Report) Age() string {
	if r.FetchedAt.IsZero() {
		return ""
	}
	return humanize.Time(r.FetchedAt)
}

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	APIKey  string
	Units   string
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client with the given key and units.
func NewClient(apiKey, units string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if units == "" {
		units = "imperial"
	}
	return &Client{
		APIKey: apiKey,
		Units:  units,
		HTTP:   &http.Client{Timeout: timeout},
	}
}

// Current fetches conditions at loc. On any failure it returns the fallback
// report together with the error.
func (c *Client) Current(ctx context.Context, loc Location) (Report, error) {
	if c.APIKey == "" {
		return Fallback(loc, c.Units), autumnerrors.ErrWeatherKeyMissing
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("appid", c.APIKey)
	q.Set("units", c.Units)

	var resp struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := getJSON(ctx, c.HTTP, orDefault(c.BaseURL, OpenWeatherURL)+"?"+q.Encode(), &resp); err != nil {
		return Fallback(loc, c.Units), errors.Wrap(err, "failed to fetch weather")
	}
	if len(resp.Weather) == 0 {
		return Fallback(loc, c.Units), errors.New("weather response has no conditions")
	}

	return Report{
		Location:    loc,
		Condition:   Classify(resp.Weather[0].Main),
		Temperature: int(math.Round(resp.Main.Temp)),
		Units:       c.Units,
		FetchedAt:   time.Now(),
	}, nil
}

// Service combines a Locator and a Client.
type Service struct {
	Locator *Locator
	Client  *Client
}

// NewService creates a service.
func NewService(locator *Locator, client *Client) *Service {
	return &Service{Locator: locator, Client: client}
}

// Report locates the machine and fetches its current conditions. The
// returned report is always renderable; err reports why it is a fallback.
func (s *Service) Report(ctx context.Context) (Report, error) {
	loc := s.Locator.Locate(ctx)
	r, err := s.Client.Current(ctx, loc)
	if err != nil {
		zlog.Warn().Err(err).Str("city", loc.City).Msg("weather: using fallback")
		return r, err
	}
	zlog.Debug().
		Str("city", loc.City).
		Str("condition", string(r.Condition)).
		Int("temp", r.Temperature).
		Msg("weather: updated")
	return r, nil
}

// redact hides the api key in URLs that end up in errors.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("appid") {
		q.Set("appid", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
