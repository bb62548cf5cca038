// Package lettermint is a client for the Lettermint transactional email API.
//
// # Sending
//
// Build a request with the immutable Email builder and send it with a Client:
//
//	client, err := lettermint.New(os.Getenv("LETTERMINT_API_TOKEN"))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	resp, err := client.Send(ctx, client.Email().
//		From("Acme <hello@acme.com>").
//		To("ada@example.com", "grace@example.com").
//		Subject("Welcome").
//		HTML("<h1>Welcome!</h1>").
//		Tag("onboarding"))
//	if err != nil {
//		return err
//	}
//	fmt.Println(resp.MessageID, resp.Status)
//
// Every builder method returns a new Email, so a partially built request
// can serve as a template for several messages without aliasing. Invalid
// addresses are detected by the method that receives them and reported by
// Err, Validate and Send. Send also checks that a sender, a recipient and
// some content are present before any network call is made.
//
// Scoped wraps construction and Close:
//
//	err := lettermint.Scoped(token, func(c *lettermint.Client) error {
//		_, err := c.Send(ctx, email)
//		return err
//	})
//
// # Concurrent sends
//
// AsyncClient returns a future per send; SendAll waits for a batch:
//
//	ac := client.Async()
//	results, err := ac.SendAll(ctx, first, second, third)
//
// # Errors
//
// Every failure is an *Error whose Kind tells what happened:
//
//   - KindValidation: rejected locally (Source == SourceLocal, Code is
//     CodeMissingSender, CodeMissingRecipient, CodeMissingContent or
//     CodeInvalidAddress) or by the API with 422 (Source == SourceAPI,
//     Code is the API error type, e.g. "daily_limit_exceeded").
//   - KindClient: any other 4xx.
//   - KindTimeout: no response within the client timeout.
//   - KindHTTPRequest: connection failure, 5xx, malformed response, or a
//     closed client.
//
// Match with errors.Is against ErrValidation, ErrClient, ErrTimeout and
// ErrHTTPRequest, or errors.As into *Error for details.
//
// # Retries
//
// The client never retries. Attach an idempotency key and retry from the
// caller, for example with package retry and IsRetryable.
//
// # Webhooks
//
// Webhook verification lives in package webhook.
package lettermint
