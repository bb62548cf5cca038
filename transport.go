package lettermint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 4 << 20

// Request is a fully prepared API request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a received API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport executes API requests. It returns an error only when no
// response was obtained; any received status is a Response.
//
// Implementations must be safe for concurrent use. Close releases the
// underlying resources; Do after Close must fail with ErrClientClosed.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	client *http.Client
	closed atomic.Bool
}

// NewHTTPTransport wraps client. A nil client gets a fresh *http.Client
// with its own connection pool. Timeouts are applied per request through
// the context, so client.Timeout can stay zero.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClientClosed
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header = r.Header.Clone()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Close closes idle connections and rejects further requests.
// It is safe to call more than once.
func (t *HTTPTransport) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		t.client.CloseIdleConnections()
	}
	return nil
}
