package lettermint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lettermint/lettermint-go/pkg/address"
	"github.com/lettermint/lettermint-go/pkg/logger"
)

// Version is reported in the default User-Agent.
const Version = "0.1.0"

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.lettermint.co"
	// DefaultTimeout bounds every request unless WithTimeout says otherwise.
	DefaultTimeout = 30 * time.Second

	sendPath = "/v1/send"

	headerTokenLegacy    = "x-lettermint-token"
	headerIdempotencyKey = "Idempotency-Key"
)

// Client sends email through the Lettermint API.
//
// A Client owns its transport: create one per API token, share it between
// goroutines and Close it when done. Send makes exactly one request and
// never retries; see package retry for caller-side retries.
type Client struct {
	token          string
	baseURL        string
	timeout        time.Duration
	userAgent      string
	transport      Transport
	logger         *slog.Logger
	defaultFromRaw string
	defaultFrom    address.Address
	maxInFlight    int

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// New creates a client authenticated with apiToken.
func New(apiToken string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiToken) == "" {
		return nil, fmt.Errorf("%w: api token is required", ErrInvalidConfig)
	}

	c := &Client{
		token:     apiToken,
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base, err := normalizeBaseURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	c.baseURL = base

	if c.defaultFromRaw != "" {
		if c.defaultFrom, err = address.Parse(c.defaultFromRaw); err != nil {
			return nil, fmt.Errorf("%w: default from: %w", ErrInvalidConfig, err)
		}
	}

	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}
	c.logger = c.logger.With(logger.Component("lettermint"))
	return c, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(apiToken string, opts ...Option) *Client {
	c, err := New(apiToken, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Scoped creates a client, passes it to fn and closes it when fn returns
// or panics. The close error is joined with fn's error.
func Scoped(apiToken string, fn func(*Client) error, opts ...Option) (err error) {
	c, err := New(apiToken, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()
	return fn(c)
}

// Email returns a new request, with the sender pre-filled when the client
// was configured WithDefaultFrom.
func (c *Client) Email() Email {
	e := NewEmail()
	if !c.defaultFrom.IsZero() {
		e.from = c.defaultFrom
	}
	return e
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Send validates e, posts it to the send endpoint and classifies the
// outcome. Every failure is an *Error.
func (c *Client) Send(ctx context.Context, e Email) (*SendEmailResponse, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if c.closed.Load() {
		return nil, classifyTransportError(ErrClientClosed, c.timeout)
	}

	body, err := e.MarshalJSON()
	if err != nil {
		return nil, validationError(CodeInvalidContent, "encode request body", err)
	}

	req := &Request{
		Method: http.MethodPost,
		URL:    c.baseURL + sendPath,
		Header: c.headers(e.idempotencyKey),
		Body:   body,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.logger.With(logger.IdempotencyKey(e.idempotencyKey))
	log.DebugContext(ctx, "sending email", logger.Recipients(len(e.to)+len(e.cc)+len(e.bcc)))
	start := time.Now()

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		err = classifyTransportError(err, c.timeout)
		log.WarnContext(ctx, "send failed", logger.Duration(time.Since(start)), logger.Error(err))
		return nil, err
	}

	result, err := classifyResponse(resp)
	if err != nil {
		log.WarnContext(ctx, "send rejected",
			logger.StatusCode(resp.StatusCode),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}

	log.InfoContext(ctx, "email sent",
		logger.MessageID(result.MessageID),
		logger.StatusCode(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)
	return result, nil
}

// Close releases the transport. Later sends fail with an error wrapping
// ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}

func (c *Client) headers(idempotencyKey string) http.Header {
	h := make(http.Header, 7)
	h.Set("Authorization", "Bearer "+c.token)
	h.Set(headerTokenLegacy, c.token)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", c.userAgent)
	if idempotencyKey != "" {
		h.Set(headerIdempotencyKey, idempotencyKey)
	}
	return h
}

func defaultUserAgent() string {
	return fmt.Sprintf("lettermint-go/%s (Go; %s)", Version, runtime.Version())
}

// normalizeBaseURL strips trailing slashes and a trailing /v1 segment.
func normalizeBaseURL(raw string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	s = strings.TrimRight(strings.TrimSuffix(s, "/v1"), "/")

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: base url %q must be an absolute http(s) URL", ErrInvalidConfig, raw)
	}
	return s, nil
}
