package webhook

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lettermint/lettermint-go/pkg/logger"
)

// DefaultMaxBodySize limits how much of a delivery body is read.
const DefaultMaxBodySize int64 = 1 << 20

type middlewareOptions struct {
	guard       *Guard
	maxBodySize int64
	logger      *slog.Logger
	onError     func(w http.ResponseWriter, r *http.Request, err error)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareOptions)

// WithReplayStore rejects deliveries whose signature was already accepted.
func WithReplayStore(store ReplayStore) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.guard = &Guard{store: store}
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) MiddlewareOption {
	return func(o *middlewareOptions) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithLogger logs rejected deliveries. Nil is ignored.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(o *middlewareOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorHandler replaces the default plain-text error response.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(o *middlewareOptions) {
		if fn != nil {
			o.onError = fn
		}
	}
}

// Middleware verifies webhook deliveries before they reach next.
//
// Rejected deliveries get 401 (signature, tolerance, replay), 400 (body
// not JSON) or 413 (body too large). Accepted deliveries continue with
// the payload in the request context and the body rewound.
func Middleware(verifier *Webhook, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := &middlewareOptions{
		maxBodySize: DefaultMaxBodySize,
		logger:      logger.Discard(),
		onError:     defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.guard != nil {
		o.guard.webhook = verifier
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, o.maxBodySize))
			if err != nil {
				o.logger.WarnContext(r.Context(), "webhook body rejected",
					logger.Component("webhook"), logger.Error(err))
				o.onError(w, r, err)
				return
			}

			var p Payload
			if o.guard != nil {
				p, err = o.guard.Verify(r.Context(), r.Header, body)
			} else {
				p, err = verifier.VerifyHeaders(r.Header, body)
			}
			if err != nil {
				o.logger.WarnContext(r.Context(), "webhook verification failed",
					logger.Component("webhook"),
					slog.String("kind", KindOf(err).String()),
					logger.Error(err),
				)
				o.onError(w, r, err)
				return
			}

			o.logger.DebugContext(r.Context(), "webhook verified",
				logger.Component("webhook"), logger.Event(p.Event()))

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), p)))
		})
	}
}

// StatusCode maps a verification failure to an HTTP status.
func StatusCode(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrJSONDecode):
		return http.StatusBadRequest
	case errors.Is(err, ErrWebhookVerification):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	code := StatusCode(err)
	http.Error(w, http.StatusText(code), code)
}
