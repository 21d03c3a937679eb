// Package globalmet implements the HTTP client for the GlobalMet
// weather-station API.
package globalmet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/meteosonora/globalmet-stats/internal/weather"
)

// Client fetches per-day measurement records from the GlobalMet API. Each
// fetch is a single attempt; a circuit breaker gates calls while the upstream
// is failing but no retries are performed.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	clock   weather.Clock
	log     *logrus.Logger
}

// NewClient creates a Client. The http.Client is expected to carry the
// outbound timeout (30s by default, see config).
func NewClient(httpClient *http.Client, baseURL, token string, clock weather.Clock, log *logrus.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "globalmet",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  httpClient,
		circuit: cb,
		clock:   clock,
		log:     log,
	}
}

// FetchMeasurements returns the measurements for a date as a uniform list,
// regardless of which envelope the upstream wrapped them in. An empty date
// defaults to today in the station timezone. A malformed date fails before
// any network call.
func (c *Client) FetchMeasurements(ctx context.Context, date string) ([]weather.Measurement, error) {
	if date == "" {
		date = c.clock.Today()
	} else if _, err := time.Parse(weather.DateLayout, date); err != nil {
		return nil, weather.NewError(weather.ErrInvalidDate, "invalid date format: %s, expected YYYY-MM-DD", date)
	}

	values := url.Values{}
	values.Set("dia", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		c.log.WithError(err).WithField("dia", date).Warn("globalmet fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding globalmet response: %w", err)
	}

	return normalizeEnvelope(payload), nil
}

// do executes the request through the circuit breaker and maps transport and
// status failures onto the upstream error kind.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.NewUpstreamError(0, "globalmet api error: circuit open: %v", err)
		}
		var se *statusError
		if errors.As(err, &se) {
			return nil, weather.NewUpstreamError(se.code, "globalmet api error: unexpected status %d", se.code)
		}
		return nil, weather.NewUpstreamError(0, "globalmet api error: %v", err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, weather.NewUpstreamError(0, "globalmet api error: unexpected breaker result")
	}
	return resp, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// envelopeKeys are checked in priority order when the upstream wraps the
// measurement list in an object.
var envelopeKeys = []string{"results", "data", "mediciones"}

// normalizeEnvelope flattens the ambiguous upstream response shapes into a
// measurement list: a raw array is taken as-is, an object is unwrapped via
// envelopeKeys, a bare record object becomes a one-element list, and anything
// else normalizes to an empty list.
func normalizeEnvelope(payload any) []weather.Measurement {
	switch v := payload.(type) {
	case []any:
		return toMeasurements(v)
	case map[string]any:
		for _, key := range envelopeKeys {
			if nested, ok := v[key]; ok {
				list, ok := nested.([]any)
				if !ok {
					return nil
				}
				return toMeasurements(list)
			}
		}
		return []weather.Measurement{weather.Measurement(v)}
	default:
		return nil
	}
}

func toMeasurements(items []any) []weather.Measurement {
	measurements := make([]weather.Measurement, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		measurements = append(measurements, weather.Measurement(record))
	}
	return measurements
}
