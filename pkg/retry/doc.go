// Package retry re-runs fallible calls with backoff.
//
// The Lettermint client never retries on its own; sends are not guaranteed
// to be idempotent unless an idempotency key is attached. Callers that do
// attach one can wrap the send:
//
//	email := client.Email().
//	    From("Acme <billing@acme.com>").
//	    To("ada@example.com").
//	    Subject("Invoice").
//	    Text("...").
//	    IdempotencyKey(lettermint.NewIdempotencyKey())
//
//	resp, err := retry.Value(ctx, func(ctx context.Context) (*lettermint.SendEmailResponse, error) {
//	    return client.Send(ctx, email)
//	}, retry.WithRetryIf(lettermint.IsRetryable))
//
// Exponential and Constant implement Backoff; DefaultBackoff starts at
// 500ms and doubles up to 10s with 10% jitter.
package retry
