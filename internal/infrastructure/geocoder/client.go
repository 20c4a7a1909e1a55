package geocoder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/pkg/metrics"
)

const (
	defaultRequestTimeout = 10 * time.Second
	userAgent             = "jobboard-api/1.0"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// client holds the transport shared by every provider.
type client struct {
	name        string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func newClient(name string) client {
	return client{name: name, httpClient: &http.Client{Timeout: defaultRequestTimeout}}
}

func (c *client) SetHTTPClient(httpClient HTTPClient) {
	c.httpClient = httpClient
}

// SetRateLimit caps outgoing requests. Zero or negative disables the limit.
func (c *client) SetRateLimit(maxRequestsPerSecond float64) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// Name returns the provider name used in metrics and cache keys.
func (c *client) Name() string {
	return c.name
}

func (c *client) sendRequest(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.GeocodeDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	}()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrGeocoderUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrGeocoderUnavailable, c.name, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", domain.ErrGeocoderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s request failed with status %d, body: %s",
			domain.ErrGeocoderUnavailable, c.name, resp.StatusCode, truncate(body, 256))
	}

	return body, nil
}

// record counts one provider lookup by outcome.
func (c *client) record(results []domain.GeoResult, err error) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case len(results) == 0:
		result = "empty"
	}
	metrics.GeocodeRequestsTotal.WithLabelValues(c.name, result).Inc()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
