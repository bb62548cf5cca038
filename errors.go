package lettermint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a client failure.
type Kind int

const (
	// KindValidation: the request was rejected, locally or by the API (422).
	KindValidation Kind = iota + 1
	// KindClient: the API answered with a 4xx other than 422.
	KindClient
	// KindHTTPRequest: transport failure, 5xx, unexpected status or
	// malformed response.
	KindHTTPRequest
	// KindTimeout: the request did not finish within the client timeout.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindClient:
		return "client error"
	case KindHTTPRequest:
		return "http request error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Source tells whether a failure was detected before the request left the
// process or reported by the API.
type Source string

const (
	SourceLocal Source = "local"
	SourceAPI   Source = "api"
)

// Codes of locally detected validation failures.
const (
	CodeMissingSender    = "missing_sender"
	CodeMissingRecipient = "missing_recipient"
	CodeMissingContent   = "missing_content"
	CodeInvalidAddress   = "invalid_address"
	CodeInvalidContent   = "invalid_content"
)

// Sentinel errors. Every *Error matches exactly one of the kind sentinels.
var (
	ErrValidation  = errors.New("lettermint: validation error")
	ErrClient      = errors.New("lettermint: client error")
	ErrHTTPRequest = errors.New("lettermint: http request error")
	ErrTimeout     = errors.New("lettermint: request timed out")

	ErrClientClosed  = errors.New("lettermint: client is closed")
	ErrInvalidConfig = errors.New("lettermint: invalid configuration")
)

var kindSentinels = map[Kind]error{
	KindValidation:  ErrValidation,
	KindClient:      ErrClient,
	KindHTTPRequest: ErrHTTPRequest,
	KindTimeout:     ErrTimeout,
}

// Error is returned by every client operation that fails.
//
// Code holds the validation code for local failures (CodeMissingSender, ...)
// and the API error type for 422 responses. StatusCode is 0 when no
// response was received.
type Error struct {
	Kind       Kind
	Source     Source
	Code       string
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("lettermint: ")
	b.WriteString(e.Kind.String())
	if e.Code != "" {
		b.WriteString(" (")
		b.WriteString(e.Code)
		b.WriteString(")")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " [%d %s]", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRetryable reports whether repeating the same request may succeed:
// timeouts, connection failures, 5xx responses, 408 and 429.
// Retrying is only safe when the request carries an idempotency key.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindTimeout:
		return true
	case KindHTTPRequest:
		if errors.Is(e.Err, ErrClientClosed) || errors.Is(e.Err, context.Canceled) {
			return false
		}
		return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
	case KindClient:
		return e.StatusCode == http.StatusRequestTimeout || e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

func validationError(code, msg string, err error) *Error {
	return &Error{Kind: KindValidation, Source: SourceLocal, Code: code, Message: msg, Err: err}
}
