// Package weather looks up the current location from the machine's public IP
// and fetches current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	autumnerrors "github.com/tessro/autumn/internal/errors"
)

const (
	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 5 * time.Second

	// Retry configuration for transient errors
	maxRetries    = 2
	baseRetryWait = 250 * time.Millisecond
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return "GET " + e.URL + ": " + http.StatusText(e.StatusCode) + ": " + e.Body
}

// getJSON fetches url and decodes the JSON body into result. Network errors
// and 5xx responses are retried with exponential backoff.
func getJSON(ctx context.Context, hc *http.Client, url string, result any) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			zlog.Debug().Int("attempt", attempt).Dur("wait", wait).Err(lastErr).Msg("weather: retrying")
			select {
			case <-ctx.Done():
				return errors.Mark(ctx.Err(), autumnerrors.ErrTimeout)
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Mark(errors.Wrap(err, "request failed"), autumnerrors.ErrTimeout)
			}
			lastErr = errors.Mark(errors.Wrap(err, "request failed"), autumnerrors.ErrNetworkError)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response")
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{URL: redact(url), StatusCode: resp.StatusCode, Body: string(body)}
			continue
		}
		if resp.StatusCode >= 400 {
			return &StatusError{URL: redact(url), StatusCode: resp.StatusCode, Body: string(body)}
		}

		if err := json.Unmarshal(body, result); err != nil {
			return errors.Wrap(err, "failed to parse response")
		}
		return nil
	}

	return errors.Wrapf(lastErr, "request failed after %d retries", maxRetries)
}
