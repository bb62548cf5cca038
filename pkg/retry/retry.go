package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxAttempts is the total number of calls Do makes by default,
// the first one included.
const DefaultMaxAttempts = 3

// ErrMaxAttempts is joined with the last error when every attempt failed.
var ErrMaxAttempts = errors.New("retry: max attempts reached")

type options struct {
	maxAttempts int
	backoff     Backoff
	retryIf     func(error) bool
	onRetry     func(attempt int, err error, delay time.Duration)
}

// Option configures Do and Value.
type Option func(*options)

// WithMaxAttempts sets the total number of calls. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBackoff sets the delay strategy. Nil is ignored.
func WithBackoff(b Backoff) Option {
	return func(o *options) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithRetryIf limits retries to errors for which fn returns true.
// By default every error is retried until the context passed to Do is done;
// errors from per-attempt deadlines inside fn are retried like any other.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) {
		if fn != nil {
			o.retryIf = fn
		}
	}
}

// WithOnRetry registers a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(o *options) {
		o.onRetry = fn
	}
}

func retryAll(error) bool { return true }

// Do calls fn until it succeeds, returns a non-retryable error, the attempt
// budget is spent or ctx is done.
//
// A non-retryable error is returned unchanged so callers can keep matching
// on it. Exhausting the attempts returns the last error joined with
// ErrMaxAttempts.
func Do(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	_, err := Value(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, opts...)
	return err
}

// Value is Do for functions that produce a result.
func Value[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := &options{
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff(),
		retryIf:     retryAll,
	}
	for _, opt := range opts {
		opt(o)
	}

	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if cerr := ctx.Err(); cerr != nil {
			if errors.Is(err, cerr) {
				return zero, err
			}
			return zero, errors.Join(cerr, err)
		}
		if !o.retryIf(err) {
			return zero, err
		}
		if attempt >= o.maxAttempts {
			return zero, errors.Join(fmt.Errorf("%w after %d attempts", ErrMaxAttempts, attempt), err)
		}

		delay := o.backoff.Delay(attempt)
		if o.onRetry != nil {
			o.onRetry(attempt, err, delay)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, errors.Join(serr, fmt.Errorf("last attempt: %w", err))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
