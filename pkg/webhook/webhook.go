package webhook

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Webhook verifies signed Lettermint webhook deliveries.
// It holds no mutable state and is safe for concurrent use.
type Webhook struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithTolerance sets the allowed distance between the signature timestamp
// and the local clock. Non-positive values are ignored.
func WithTolerance(d time.Duration) Option {
	return func(w *Webhook) {
		if d > 0 {
			w.tolerance = d
		}
	}
}

// WithClock overrides the time source. Nil is ignored.
func WithClock(now func() time.Time) Option {
	return func(w *Webhook) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates a verifier for the given signing secret.
func New(secret string, opts ...Option) (*Webhook, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is required", ErrInvalidConfiguration)
	}
	w := &Webhook{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// MustNew is like New but panics on an empty secret.
func MustNew(secret string, opts ...Option) *Webhook {
	w, err := New(secret, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// Tolerance returns the configured tolerance window.
func (w *Webhook) Tolerance() time.Duration {
	return w.tolerance
}

// Verify authenticates payload against the signature header value and
// returns the decoded body.
//
// Steps run in a fixed order: header parsing, HMAC comparison, timestamp
// tolerance, JSON decoding. The payload is never parsed before it has been
// authenticated, so a forged malformed body reports an invalid signature
// rather than a decode error.
func (w *Webhook) Verify(payload []byte, signature string) (Payload, error) {
	if _, err := w.authenticate(payload, signature); err != nil {
		return nil, err
	}
	return decodePayload(payload)
}

// VerifyInto is like Verify but decodes the body into v.
func (w *Webhook) VerifyInto(payload []byte, signature string, v any) error {
	if _, err := w.authenticate(payload, signature); err != nil {
		return err
	}
	return decode(payload, v)
}

// VerifyHeaders looks up the signature in HTTP headers and verifies payload.
// When the delivery header is present its value must equal the signature
// timestamp.
func (w *Webhook) VerifyHeaders(headers http.Header, payload []byte) (Payload, error) {
	return w.verifyLookup(headers.Get, payload)
}

// VerifyHeaderMap is VerifyHeaders for a plain map with arbitrary key casing.
func (w *Webhook) VerifyHeaderMap(headers map[string]string, payload []byte) (Payload, error) {
	lookup := func(name string) string {
		for k, v := range headers {
			if strings.EqualFold(k, name) {
				return v
			}
		}
		return ""
	}
	return w.verifyLookup(lookup, payload)
}

// VerifySignature runs the full verification pipeline without keeping a
// Webhook around.
func VerifySignature(payload []byte, signature, secret string, opts ...Option) (Payload, error) {
	w, err := New(secret, opts...)
	if err != nil {
		return nil, err
	}
	return w.Verify(payload, signature)
}

func (w *Webhook) verifyLookup(lookup func(string) string, payload []byte) (Payload, error) {
	p, _, err := w.verifyDelivery(lookup, payload)
	return p, err
}

// verifyDelivery is verifyLookup that also returns the authenticated
// signature, used by Guard to key replay detection.
func (w *Webhook) verifyDelivery(lookup func(string) string, payload []byte) (Payload, authenticated, error) {
	signature := lookup(SignatureHeader)
	if signature == "" {
		return nil, authenticated{}, verificationError(KindInvalidSignature, nil, "missing signature header: %s", SignatureHeader)
	}

	auth, err := w.authenticate(payload, signature)
	if err != nil {
		return nil, authenticated{}, err
	}

	if delivery := lookup(DeliveryHeader); delivery != "" {
		ts, err := strconv.ParseInt(strings.TrimSpace(delivery), 10, 64)
		if err != nil {
			return nil, authenticated{}, verificationError(KindInvalidSignature, err, "invalid timestamp in %s header", DeliveryHeader)
		}
		if ts != auth.timestamp {
			return nil, authenticated{}, verificationError(KindInvalidSignature, nil,
				"timestamp mismatch between signature and %s header", DeliveryHeader)
		}
	}

	p, err := decodePayload(payload)
	if err != nil {
		return nil, authenticated{}, err
	}
	return p, auth, nil
}

// authenticated is the timestamp and MAC the server computed for a
// delivery that passed verification. It does not depend on how the
// signature header was written.
type authenticated struct {
	timestamp int64
	mac       []byte
}

// key identifies the delivery independently of header encoding.
func (a authenticated) key() string {
	return strconv.FormatInt(a.timestamp, 10) + "." + hex.EncodeToString(a.mac)
}

// maxToleranceSeconds is the largest second count representable as a Duration.
const maxToleranceSeconds = int64(math.MaxInt64 / int64(time.Second))

// authenticate performs the parse, MAC and tolerance steps.
func (w *Webhook) authenticate(payload []byte, signature string) (authenticated, error) {
	sig, err := ParseSignature(signature)
	if err != nil {
		return authenticated{}, err
	}

	mac := computeMAC(w.secret, sig.Timestamp, payload)
	if !sig.matches(mac) {
		return authenticated{}, verificationError(KindInvalidSignature, nil, "signature mismatch")
	}

	diff := w.now().Unix() - sig.Timestamp
	if diff < 0 {
		diff = -diff
	}
	if diff < 0 || diff > maxToleranceSeconds || time.Duration(diff)*time.Second > w.tolerance {
		return authenticated{}, verificationError(KindTimestampTolerance, nil,
			"difference %ds exceeds tolerance %s", diff, w.tolerance)
	}
	return authenticated{timestamp: sig.Timestamp, mac: mac}, nil
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return verificationError(KindJSONDecode, err, "")
	}
	return nil
}

func decodePayload(payload []byte) (Payload, error) {
	var p Payload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, verificationError(KindJSONDecode, nil, "payload is not a JSON object")
	}
	return p, nil
}
