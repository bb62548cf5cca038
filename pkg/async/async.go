package async

import (
	"context"
	"errors"
)

// Future is the eventual result of a call started with Go.
// Its methods are safe for concurrent use.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the call completes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext is Await bounded by ctx. When ctx ends first it returns
// ctx.Err() joined with ErrNotReady; the underlying call keeps running.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, errors.Join(ErrNotReady, ctx.Err())
	}
}

// Done is closed once the call has completed.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the call has completed, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Go runs fn in its own goroutine and returns a Future for its result.
// If ctx is already done, fn is not called and the Future completes with
// ctx.Err().
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns an already completed Future.
func Resolved[U any](v U, err error) *Future[U] {
	f := &Future[U]{result: v, err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// WaitAll waits for every future and returns their results in order.
// The returned error joins every non-nil error; results of failed
// futures hold their zero value.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var errs []error

	for i, f := range futures {
		res, err := f.Await()
		results[i] = res
		if err != nil {
			errs = append(errs, err)
		}
	}

	return results, errors.Join(errs...)
}

// WaitAny returns the index and outcome of the first future to complete.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}
	done := make(chan outcome, len(futures))

	for i, f := range futures {
		go func() {
			<-f.done
			done <- outcome{i, f.result, f.err}
		}()
	}

	res := <-done
	return res.index, res.result, res.err
}
