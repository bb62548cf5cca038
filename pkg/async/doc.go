// Package async provides generic futures for running calls concurrently.
//
// Go starts a function in its own goroutine and returns a *Future. The
// caller waits with Await, bounds the wait with AwaitContext, selects on
// Done or polls IsComplete. WaitAll collects every result in order and
// WaitAny returns the first one to finish.
//
//	f := async.Go(ctx, func(ctx context.Context) (*lettermint.SendEmailResponse, error) {
//	    return client.Send(ctx, email)
//	})
//	// ...
//	resp, err := f.Await()
//
// A context that is already done when Go is called completes the Future
// with the context error without running the function. Cancelling it later
// is up to the function itself.
package async
