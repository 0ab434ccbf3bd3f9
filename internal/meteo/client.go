package meteo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const forecastUserAgent = "android-31 ch.admin.meteoswiss-2160000"

// BackoffConfig controls exponential backoff behaviour for outbound fetches.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// Client fetches and normalizes the MeteoSwiss open-data feeds. Languages
// available are en, de, fr and it.
type Client struct {
	httpClient *http.Client
	language   string
	backoff    BackoffConfig
	breakers   map[string]*gobreaker.CircuitBreaker

	// Feed endpoints; overridable in tests.
	stationURL       string
	pollenStationURL string
	currentURL       string
	forecastURL      string
	pollenURL        string
}

// NewClient creates a Client speaking the given feed language.
func NewClient(httpClient *http.Client, language string) *Client {
	c := &Client{
		httpClient: httpClient,
		language:   language,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		breakers:         make(map[string]*gobreaker.CircuitBreaker),
		stationURL:       stationURLTemplate,
		pollenStationURL: pollenStationURLTemplate,
		currentURL:       currentConditionURL,
		forecastURL:      forecastURLTemplate,
		pollenURL:        pollenURLTemplate,
	}
	for _, feed := range []string{"stations", "pollen-stations", "current", "forecast", "pollen"} {
		c.breakers[feed] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        feed,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		})
	}
	return c
}

// get executes a GET against one feed with retries, exponential backoff and
// the feed's circuit breaker. Callers own the response body.
func (c *Client) get(ctx context.Context, feed, url string, header http.Header) (*http.Response, error) {
	if c.httpClient == nil {
		return nil, errNoHTTPClient
	}

	cb := c.breakers[feed]
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, values := range header {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := c.httpClient.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, errServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If the circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= c.backoff.MaxRetries {
			return nil, lastErr
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.backoff.MaxInterval && c.backoff.MaxInterval > 0 {
			delay = c.backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
