package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lettermint/lettermint-go/pkg/httpserver"
	"github.com/lettermint/lettermint-go/pkg/logger"
	"github.com/lettermint/lettermint-go/pkg/webhook"
)

type routerOptions struct {
	Path     string
	Verifier *webhook.Webhook
	Replay   webhook.ReplayStore
	Checks   []httpserver.Check
	Logger   *slog.Logger
}

func newRouter(opts routerOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(opts.Logger, opts.Checks...))

	r.With(webhook.Middleware(opts.Verifier,
		webhook.WithReplayStore(opts.Replay),
		webhook.WithLogger(opts.Logger),
	)).Post(opts.Path, handleEvent(opts.Logger))

	return r
}

// requestIDExtractor adds chi's request id to every record logged with the
// request context.
func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func handleEvent(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := webhook.PayloadFromContext(r.Context())
		log.InfoContext(r.Context(), "webhook received",
			logger.Event(p.Event()),
			slog.String("webhook_id", p.ID()),
		)
		w.WriteHeader(http.StatusNoContent)
	}
}
