// Package forecast implements the HTTP client for forecast.io-compatible
// weather APIs. Requests are context-aware, share a rate limiter, retry on
// transient errors (429, 5xx) and run behind a circuit breaker so that a dead
// upstream fails fast.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/derickschaefer/forecast/internal/model"
)

const (
	defaultBaseURL = "https://api.forecast.io/forecast/"
	maxRetries     = 4
)

var (
	// ErrCircuitOpen is returned while the breaker rejects requests.
	ErrCircuitOpen = errors.New("forecast: circuit breaker open")

	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
)

// Client is the forecast API HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	units      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	backoff    time.Duration
	debug      bool
}

// NewClient creates a Client with the given API key and timeout. units is
// passed through as the units query parameter when non-empty.
func NewClient(apiKey, baseURL, units string, timeout time.Duration, ratePerSec float64, debug bool) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		units:   units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "forecast",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2*maxRetries
			},
			IsSuccessful: func(err error) bool {
				var perm *permanentError
				return err == nil || errors.As(err, &perm)
			},
		}),
		backoff: 500 * time.Millisecond,
		debug:   debug,
	}
}

// SetBackoff changes the base retry delay. Tests use it to keep retries fast.
func (c *Client) SetBackoff(d time.Duration) {
	c.backoff = d
}

// ─── Forecast ─────────────────────────────────────────────────────────────────

// Get fetches the raw forecast document for a location. The body is returned
// undecoded so callers can cache or dump it verbatim; see Parse.
func (c *Client) Get(ctx context.Context, lat, lon float64) ([]byte, error) {
	endpoint := c.apiKey + "/" + formatCoord(lat) + "," + formatCoord(lon)
	params := url.Values{}
	if c.units != "" {
		params.Set("units", c.units)
	}
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("forecast %s,%s: %w", formatCoord(lat), formatCoord(lon), err)
	}
	return body, nil
}

// Parse decodes a forecast document.
func Parse(body []byte) (*model.Forecast, error) {
	var f model.Forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}
	return &f, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

// get performs a GET request, handling rate limiting, retries and the
// circuit breaker. It returns the response body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.debug {
		// Log URL with API key redacted
		safe := reqURL
		if c.apiKey != "" {
			safe = strings.Replace(reqURL, c.apiKey, "REDACTED", 1)
		}
		slog.Debug("forecast request", "url", safe)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.backoff
			slog.Debug("retrying after backoff", "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, reqURL)
		})
		if err == nil {
			return result.([]byte), nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

// permanentError marks a response that retrying cannot fix. It still counts
// as a breaker success: the upstream answered.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

// do sends one request. Client errors (4xx other than 429) are reported
// through a permanentError result so the breaker only counts transport and
// server failures.
func (c *Client) do(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("User-Agent", "forecast-cli/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if c.debug {
		slog.Debug("forecast response", "status", resp.StatusCode, "bytes", len(body))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: HTTP %d", errRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d: %s", errServerError, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		// forecast.io reports errors as {"code": 400, "error": "..."}
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Error != "" {
			return nil, &permanentError{fmt.Errorf("API error: %s", apiErr.Error)}
		}
		return nil, &permanentError{fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}
	return body, nil
}
