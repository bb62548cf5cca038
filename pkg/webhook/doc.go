// Package webhook verifies signed webhook deliveries sent by Lettermint.
//
// Every delivery carries a signature header:
//
//	X-Lettermint-Signature: t=1700000000,v1=5257a869e7ecebeda32affa62cdca3fa51cad7e77a0e56ff536d0ce8e108d8bd
//	X-Lettermint-Delivery:  1700000000
//
// The v1 value is the hex encoded HMAC-SHA256 of "<t>.<raw body>" keyed
// with the endpoint's signing secret. More than one v1 value may be present
// while a secret is being rotated; a delivery is authentic when any of them
// matches.
//
// # Verification Pipeline
//
// Verify runs four steps and stops at the first failure:
//
//  1. Parse the header. Missing t or v1 is an invalid signature.
//  2. Compare the expected HMAC with every v1 value in constant time.
//  3. Reject timestamps further than the tolerance (default 5 minutes)
//     from the local clock, in either direction.
//  4. Decode the body as a JSON object.
//
// The body is only parsed after it has been authenticated.
//
// # Usage
//
//	wh, err := webhook.New(os.Getenv("LETTERMINT_WEBHOOK_SECRET"))
//	if err != nil {
//	    return err
//	}
//
//	payload, err := wh.VerifyHeaders(r.Header, body)
//	switch {
//	case errors.Is(err, webhook.ErrTimestampTolerance):
//	    // stale or clock-skewed delivery
//	case errors.Is(err, webhook.ErrWebhookVerification):
//	    // any other verification failure
//	}
//	fmt.Println(payload.Event())
//
// One-shot verification without keeping a verifier:
//
//	payload, err := webhook.VerifySignature(body, header, secret)
//
// # HTTP Middleware
//
// Middleware wraps any http.Handler, verifies the delivery and stores the
// payload in the request context:
//
//	r := chi.NewRouter()
//	r.With(webhook.Middleware(wh,
//	    webhook.WithReplayStore(webhook.NewMemoryReplayStore()),
//	)).Post("/webhooks/lettermint", func(w http.ResponseWriter, r *http.Request) {
//	    payload, _ := webhook.PayloadFromContext(r.Context())
//	    ...
//	})
//
// # Replay Protection
//
// The tolerance window bounds how long a captured delivery can be replayed.
// Guard (and WithReplayStore) additionally remembers accepted signatures so
// the same delivery is accepted at most once. MemoryReplayStore serves a
// single process; RedisReplayStore shares state across instances.
//
// # Error Handling
//
// Every failure is a *VerificationError. All of them match
// ErrWebhookVerification; each also matches exactly one of
// ErrInvalidSignature, ErrTimestampTolerance, ErrJSONDecode or ErrReplay.
// KindOf returns the Kind for switch statements.
package webhook
