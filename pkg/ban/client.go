// Package ban provides a client for the BAN address geocoding API
// (api-adresse.data.gouv.fr). A query with no match is a valid absent
// outcome, not an error.
package ban

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api-adresse.data.gouv.fr/search/"

// Client defines the geocoding operation used by the check pipeline.
type Client interface {
	// Search geocodes a free-text address query, optionally narrowed by
	// postal code and city. It returns nil when BAN has no match.
	Search(ctx context.Context, query, postcode, city string) (*Position, error)
}

// Position is the best-match coordinate pair, WGS84 degrees.
type Position struct {
	Lon   float64
	Lat   float64
	Label string
	Score float64
}

// featureCollection is the GeoJSON-shaped BAN response.
type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// Option configures the BAN client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for BAN calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a BAN geocoding client. The default rate limit
// matches the public BAN allowance of 50 requests per second.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(50, 50),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query, postcode, city string) (*Position, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ban: rate limit")
	}

	params := url.Values{
		"q":     {query},
		"limit": {"1"},
	}
	if postcode != "" {
		params.Set("postcode", postcode)
	}
	if city != "" {
		params.Set("city", city)
	}

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	reqURL := c.baseURL + sep + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "ban: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ban: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ban: read response body")
	}

	// A non-200 from BAN means no usable match for this query.
	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("ban: non-200 response treated as no match",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query),
		)
		return nil, nil
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, eris.Wrap(err, "ban: unmarshal response")
	}

	if len(fc.Features) == 0 {
		return nil, nil
	}

	// First match wins; BAN orders by relevance.
	first := fc.Features[0]
	if len(first.Geometry.Coordinates) < 2 {
		return nil, nil
	}
	return &Position{
		Lon:   first.Geometry.Coordinates[0],
		Lat:   first.Geometry.Coordinates[1],
		Label: first.Properties.Label,
		Score: first.Properties.Score,
	}, nil
}
