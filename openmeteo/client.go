package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/dkotrba/weatherpipe/errs"
)

// DefaultBaseURL is the historical archive endpoint.
const DefaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

// Client performs archive fetches. The HTTP client is injected so callers
// share one with a bounded timeout. There is no retry, no fallback and no
// circuit state: a transport or decode failure surfaces to the caller
// unmodified, and re-invoking the pipeline is the caller's decision.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the archive endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithCache memoizes raw replies to gzip files under dir, keyed by the
// query encoding. Saves load on the API across repeated runs.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a Client. A nil httpClient gets a 30 second timeout.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{httpClient: httpClient, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a single synchronous archive request for the Query and
// decodes the reply. An invalid Query is rejected before any network I/O.
func (c *Client) Fetch(ctx context.Context, q Query) (*ArchiveResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	values := q.Values()
	requestURL := c.baseURL + "?" + values.Encode()

	body, cached := c.cacheGet(values)
	if !cached {
		var err error
		body, err = c.doRequest(ctx, requestURL)
		if err != nil {
			return nil, err
		}
		c.cachePut(values, body)
	}

	var resp ArchiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapDecode("reply is not the expected archive shape", err)
	}
	if len(resp.Hourly.Time) == 0 {
		return nil, wrapDecode("reply has an empty hourly time axis", nil)
	}
	for key, vals := range resp.Hourly.Variables {
		if len(vals) != len(resp.Hourly.Time) {
			return nil, wrapDecode(
				fmt.Sprintf("hourly array %q has %d values for %d timestamps",
					key, len(vals), len(resp.Hourly.Time)), nil)
		}
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, wrapTransport(requestURL, 0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransport(requestURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, wrapTransport(requestURL, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport(requestURL, 0, err)
	}
	return body, nil
}

func wrapTransport(requestURL string, status int, cause error) error {
	return &errs.TransportError{URL: requestURL, StatusCode: status, Cause: cause}
}

func wrapDecode(detail string, cause error) error {
	return &errs.DecodeError{Detail: detail, Cause: cause}
}

func (c *Client) cacheGet(values url.Values) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(values)
	if err != nil {
		log.Printf("archive cache read failed: %v", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) cachePut(values url.Values, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(values, body); err != nil {
		log.Printf("archive cache write failed: %v", err)
	}
}
