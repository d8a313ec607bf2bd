package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is sent with every request made by HTTPClient.
const DefaultUserAgent = "life-sync"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Retries are disabled: failed requests are classified and rescheduled by
// the sync orchestrator.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption customizes a client built by NewHTTPClient.
type HTTPClientOption func(*resty.Client)

// WithBaseURL sets the base URL prepended to relative request paths.
func WithBaseURL(url string) HTTPClientOption {
	return func(c *resty.Client) { c.SetBaseURL(url) }
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) HTTPClientOption {
	return func(c *resty.Client) { c.SetHeader("User-Agent", ua) }
}

// NewHTTPClient creates an independent HTTPClient with its own connection
// pool and state.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.WithBaseURL("https://sync.example.com"))
//	resp, err := client.R().Get("/api/documents")
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", DefaultUserAgent)
	for _, opt := range opts {
		opt(c)
	}
	return &HTTPClient{Client: c}
}
