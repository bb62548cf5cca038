package lettermint

import (
	"context"

	"github.com/lettermint/lettermint-go/pkg/async"
)

// AsyncClient sends without blocking the caller. Each Send returns a
// future right away; many sends can be in flight at once over the shared
// transport of the underlying Client.
type AsyncClient struct {
	client *Client
	slots  chan struct{}
}

// NewAsync creates a Client and wraps it in an AsyncClient.
func NewAsync(apiToken string, opts ...Option) (*AsyncClient, error) {
	c, err := New(apiToken, opts...)
	if err != nil {
		return nil, err
	}
	return c.Async(), nil
}

// Async returns an AsyncClient sharing c's transport. Closing either
// closes both.
func (c *Client) Async() *AsyncClient {
	a := &AsyncClient{client: c}
	if c.maxInFlight > 0 {
		a.slots = make(chan struct{}, c.maxInFlight)
	}
	return a
}

// Client returns the underlying blocking client.
func (a *AsyncClient) Client() *Client {
	return a.client
}

// Email is Client.Email.
func (a *AsyncClient) Email() Email {
	return a.client.Email()
}

// Send starts sending e and returns its future.
// Validation errors complete the future without touching the network.
func (a *AsyncClient) Send(ctx context.Context, e Email) *async.Future[*SendEmailResponse] {
	if err := e.Validate(); err != nil {
		return async.Resolved[*SendEmailResponse](nil, err)
	}
	return async.Go(ctx, func(ctx context.Context) (*SendEmailResponse, error) {
		if a.slots != nil {
			select {
			case a.slots <- struct{}{}:
				defer func() { <-a.slots }()
			case <-ctx.Done():
				return nil, classifyTransportError(ctx.Err(), a.client.timeout)
			}
		}
		return a.client.Send(ctx, e)
	})
}

// SendAll sends every email concurrently and waits for all of them.
// Results keep the input order; failed sends leave a nil entry and their
// errors are joined.
func (a *AsyncClient) SendAll(ctx context.Context, emails ...Email) ([]*SendEmailResponse, error) {
	futures := make([]*async.Future[*SendEmailResponse], len(emails))
	for i, e := range emails {
		futures[i] = a.Send(ctx, e)
	}
	return async.WaitAll(futures...)
}

// Close closes the underlying Client.
func (a *AsyncClient) Close() error {
	return a.client.Close()
}
