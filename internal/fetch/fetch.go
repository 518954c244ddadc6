package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	UserAgent      = "ArtSea Bot/1.0 (+https://artsea.london/about) - London art events aggregator"
	AcceptLanguage = "en-GB,en;q=0.9"
	DefaultDelay   = 2 * time.Second
	Timeout        = 30 * time.Second

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json"

	// maxBodySize caps how much of a single response is read
	maxBodySize = 10 << 20
)

// ErrBodyTooLarge means a response exceeded the read cap and was not parsed
var ErrBodyTooLarge = errors.New("response body exceeds 10 MB")

// FetchError is returned when a server answers with a non-2xx status
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// Client fetches venue pages with a fixed User-Agent and a delay between requests.
// The User-Agent always identifies the bot and cannot be configured.
type Client struct {
	client *http.Client
	delay  time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithDelay sets the pause taken by Delay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.delay = d
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New creates a new Client instance
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the User-Agent header sent with every request
func (c *Client) UserAgent() string {
	return UserAgent
}

// FetchPage retrieves an HTML document as a string
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url, acceptHTML)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchJSON retrieves a JSON API response body
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, acceptJSON)
}

// Delay waits for the configured interval between requests.
// It returns ctx.Err() if ctx is cancelled first.
func (c *Client) Delay(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", AcceptLanguage)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	// one byte over the cap tells a truncated page from one that fits exactly
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("reading %s: %w", url, ErrBodyTooLarge)
	}
	return body, nil
}
