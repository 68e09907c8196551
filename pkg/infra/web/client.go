package web

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

// Client fetches plain HTTP resources such as release asset downloads
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header of every request
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// NewClient creates a new Client. No timeout is applied beyond the transport defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "ecsync",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and returns the body of a 200 response
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request",
			goerr.V("url", url),
			goerr.T(model.ErrTagFetch),
		)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request",
			goerr.V("url", url),
			goerr.T(model.ErrTagFetch),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.T(model.ErrTagFetch),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.V("url", url),
			goerr.T(model.ErrTagFetch),
		)
	}

	return data, nil
}
