package webhook

import (
	"errors"
	"fmt"
)

// Kind identifies why a webhook failed verification.
type Kind int

const (
	KindInvalidSignature Kind = iota + 1
	KindTimestampTolerance
	KindJSONDecode
	KindReplay
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSignature:
		return "invalid_signature"
	case KindTimestampTolerance:
		return "timestamp_tolerance"
	case KindJSONDecode:
		return "json_decode"
	case KindReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Sentinel errors. Every *VerificationError matches ErrWebhookVerification
// and exactly one of the kind-specific sentinels.
var (
	ErrWebhookVerification = errors.New("webhook verification failed")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrTimestampTolerance  = errors.New("webhook timestamp outside tolerance window")
	ErrJSONDecode          = errors.New("failed to decode webhook payload")
	ErrReplay              = errors.New("webhook delivery already processed")

	ErrInvalidConfiguration = errors.New("invalid webhook configuration")
)

var kindSentinels = map[Kind]error{
	KindInvalidSignature:   ErrInvalidSignature,
	KindTimestampTolerance: ErrTimestampTolerance,
	KindJSONDecode:         ErrJSONDecode,
	KindReplay:             ErrReplay,
}

// VerificationError is returned by every verification step.
// Callers can match broadly with errors.Is(err, ErrWebhookVerification)
// or narrowly on Kind / the kind sentinel.
type VerificationError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *VerificationError) Error() string {
	msg := kindSentinels[e.Kind].Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func (e *VerificationError) Is(target error) bool {
	if target == ErrWebhookVerification {
		return true
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func verificationError(kind Kind, err error, format string, args ...any) error {
	return &VerificationError{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the verification kind of err, or 0 if err is not a
// webhook verification error.
func KindOf(err error) Kind {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return 0
}
