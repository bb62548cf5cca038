package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Header names used by Lettermint webhook deliveries.
const (
	SignatureHeader = "X-Lettermint-Signature"
	DeliveryHeader  = "X-Lettermint-Delivery"
)

// DefaultTolerance is the maximum allowed distance between the signature
// timestamp and the verifier's clock.
const DefaultTolerance = 300 * time.Second

// signatureVersion is the only scheme understood by this package.
const signatureVersion = "v1"

// Signature is a parsed signature header: t=<unix>,v1=<hex>[,v1=<hex>...].
// Several v1 values appear while a signing secret is being rotated.
type Signature struct {
	Timestamp int64
	V1        []string
}

// ParseSignature parses a signature header value.
// Unknown keys are ignored so newer schemes can be added alongside v1.
func ParseSignature(header string) (Signature, error) {
	var (
		sig   Signature
		haveT bool
	)
	for part := range strings.SplitSeq(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Signature{}, verificationError(KindInvalidSignature, nil, "malformed timestamp %q", value)
			}
			sig.Timestamp = ts
			haveT = true
		case signatureVersion:
			if value != "" {
				sig.V1 = append(sig.V1, value)
			}
		}
	}
	if !haveT || len(sig.V1) == 0 {
		return Signature{}, verificationError(KindInvalidSignature, nil,
			"invalid signature format, expected t={timestamp},v1={signature}")
	}
	return sig, nil
}

// String formats the signature back into its header representation.
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("t=")
	b.WriteString(strconv.FormatInt(s.Timestamp, 10))
	for _, v := range s.V1 {
		b.WriteString(",v1=")
		b.WriteString(v)
	}
	return b.String()
}

// Sign returns a signature header value for payload at the given time.
// Receivers never need it; it exists for tests and local tooling that
// simulate deliveries.
func Sign(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	return Signature{
		Timestamp: ts,
		V1:        []string{hex.EncodeToString(computeMAC(secret, ts, payload))},
	}.String()
}

// computeMAC returns HMAC-SHA256(secret, "<timestamp>.<payload>").
// The timestamp is part of the MAC input so it cannot be swapped without
// invalidating the signature.
func computeMAC(secret string, timestamp int64, payload []byte) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(strconv.AppendInt(nil, timestamp, 10))
	h.Write([]byte{'.'})
	h.Write(payload)
	return h.Sum(nil)
}

// matches reports whether any candidate equals expected.
// Every candidate is compared in constant time; candidates that are not
// valid hex are skipped.
func (s Signature) matches(expected []byte) bool {
	found := false
	for _, candidate := range s.V1 {
		got, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			found = true
		}
	}
	return found
}
