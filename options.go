package lettermint

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. A trailing "/" or "/v1" is removed.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sends requests through hc. Close closes its idle
// connections. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.transport = NewHTTPTransport(hc)
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. with a DevTransport.
// Nil is ignored.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent replaces the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithDefaultFrom pre-fills the sender of emails created by Client.Email.
func WithDefaultFrom(from string) Option {
	return func(c *Client) {
		c.defaultFromRaw = from
	}
}

// WithMaxInFlight limits how many sends an AsyncClient runs at once.
// Zero or negative means no limit.
func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		c.maxInFlight = n
	}
}
