package weather

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Geolocation provider endpoints.
const (
	IPAPIURL   = "http://ip-api.com/json/"
	IPAPICoURL = "https://ipapi.co/json/"
)

// Location is a named point.
type Location struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Source    string  `json:"source"`
}

// SanFrancisco is the location used when every provider fails.
var SanFrancisco = Location{
	City:      "San Francisco",
	Latitude:  37.7749,
	Longitude: -122.4194,
	Source:    "fallback",
}

// Provider resolves the current location.
type Provider interface {
	Name() string
	Locate(ctx context.Context, hc *http.Client) (Location, error)
}

// IPAPI queries ip-api.com.
type IPAPI struct {
	URL string
}

func (p IPAPI) Name() string { return "ip-api.com" }

func (p IPAPI) Locate(ctx context.Context, hc *http.Client) (Location, error) {
	var resp struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		City    string  `json:"city"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := getJSON(ctx, hc, orDefault(p.URL, IPAPIURL), &resp); err != nil {
		return Location{}, err
	}
	if resp.Status != "success" {
		return Location{}, errors.Newf("ip-api.com: status %q: %s", resp.Status, resp.Message)
	}
	return Location{City: resp.City, Latitude: resp.Lat, Longitude: resp.Lon, Source: p.Name()}, nil
}

// IPAPICo queries ipapi.co.
type IPAPICo struct {
	URL string
}

func (p IPAPICo) Name() string { return "ipapi.co" }

func (p IPAPICo) Locate(ctx context.Context, hc *http.Client) (Location, error) {
	var resp struct {
		Error     bool    `json:"error"`
		Reason    string  `json:"reason"`
		City      string  `json:"city"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := getJSON(ctx, hc, orDefault(p.URL, IPAPICoURL), &resp); err != nil {
		return Location{}, err
	}
	if resp.Error {
		return Location{}, errors.Newf("ipapi.co: %s", resp.Reason)
	}
	return Location{City: resp.City, Latitude: resp.Latitude, Longitude: resp.Longitude, Source: p.Name()}, nil
}

// Locator tries each provider in order and falls back to a fixed location.
type Locator struct {
	Providers []Provider
	Fallback  Location
	Client    *http.Client
}

// NewLocator returns a locator over ip-api.com then ipapi.co.
func NewLocator(fallback Location, hc *http.Client) *Locator {
	return &Locator{
		Providers: []Provider{IPAPI{}, IPAPICo{}},
		Fallback:  fallback,
		Client:    hc,
	}
}

// Locate never fails; provider errors are logged and the fallback is used.
func (l *Locator) Locate(ctx context.Context) Location {
	hc := l.Client
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}

	for _, p := range l.Providers {
		loc, err := p.Locate(ctx, hc)
		if err == nil {
			return loc
		}
		zlog.Debug().Err(err).Str("provider", p.Name()).Msg("weather: geolocation failed")
	}

	fb := l.Fallback
	if fb.City == "" {
		fb = SanFrancisco
	}
	fb.Source = "fallback"
	return fb
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
