package postcodes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public postcodes.io endpoint.
const DefaultBaseURL = "https://api.postcodes.io"

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "postcodes-go/1.0 (https://github.com/UnknownOlympus/postcodes)"
)

// HTTPClient defines the interface for making HTTP requests.
// *http.Client satisfies it; tests substitute their own.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs lookups against postcodes.io. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	client    HTTPClient   // HTTP client for making requests
	baseURL   string       // Base URL without trailing slash
	userAgent string       // User-Agent sent with every request
	log       *slog.Logger // Logger for logging operations
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) { c.client = client }
}

// WithBaseURL points the client at another postcodes.io deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// when combined with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.client.(*http.Client); ok {
			hc.Timeout = timeout
		}
	}
}

// NewClient creates a postcodes.io client. A nil logger discards output.
func NewClient(log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FromCode looks up a single postcode. The code is sent as given; spacing
// and case are normalised by the service.
func (c *Client) FromCode(ctx context.Context, code string) (Postcode, error) {
	env, err := c.get(ctx, "/postcodes/"+url.PathEscape(code), "")
	if err != nil {
		return Postcode{}, err
	}

	return mapSingle(env)
}

// FromMultiLookup looks up several postcodes in one request. Result i
// belongs to codes[i]; if the service has no result for any one of them the
// whole call fails.
func (c *Client) FromMultiLookup(ctx context.Context, codes []string) ([]Postcode, error) {
	if codes == nil {
		codes = []string{}
	}

	payload, err := json.Marshal(struct {
		Postcodes []string `json:"postcodes"`
	}{Postcodes: codes})
	if err != nil {
		return nil, newError(KindTransport, err, "failed to encode request body: %v", err)
	}

	env, err := c.do(ctx, http.MethodPost, "/postcodes", "", payload)
	if err != nil {
		return nil, err
	}

	records, err := mapBulk(env)
	if err != nil {
		return nil, err
	}
	if len(records) != len(codes) {
		return nil, newError(KindParse, ErrNoResult, "expected %d results, got %d", len(codes), len(records))
	}

	return records, nil
}

// FromCoordinates returns the postcode nearest to the given point.
func (c *Client) FromCoordinates(ctx context.Context, latitude, longitude float64) (Postcode, error) {
	// lon before lat, as the service documents it.
	query := "lon=" + strconv.FormatFloat(longitude, 'f', -1, 64) +
		"&lat=" + strconv.FormatFloat(latitude, 'f', -1, 64)

	env, err := c.get(ctx, "/postcodes", query)
	if err != nil {
		return Postcode{}, err
	}

	return mapNearest(env)
}

// Random returns a random postcode.
func (c *Client) Random(ctx context.Context) (Postcode, error) {
	env, err := c.get(ctx, "/random/postcodes", "")
	if err != nil {
		return Postcode{}, err
	}

	return mapSingle(env)
}

// Validate reports whether code is a known UK postcode.
func (c *Client) Validate(ctx context.Context, code string) (bool, error) {
	env, err := c.get(ctx, "/postcodes/"+url.PathEscape(code)+"/validate", "")
	if err != nil {
		return false, err
	}

	return mapValidity(env)
}

func (c *Client) get(ctx context.Context, path, rawQuery string) (object, error) {
	return c.do(ctx, http.MethodGet, path, rawQuery, nil)
}

// do performs one round trip and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, payload []byte) (object, error) {
	reqURL := c.baseURL + path
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}

	c.log.DebugContext(ctx, "postcodes.io request", "method", method, "url", reqURL)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to create request: %v", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to read response body: %v", err)
	}

	c.log.DebugContext(ctx, "postcodes.io raw response", "status", resp.StatusCode, "body", string(raw))

	env, err := parseEnvelope(raw, resp.StatusCode)
	if err != nil {
		c.log.DebugContext(ctx, "postcodes.io call failed", "url", reqURL, "error", err)
		return nil, err
	}

	return env, nil
}
