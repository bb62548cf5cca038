// Package httpserver runs the webhook receiver's HTTP listener.
//
// Server wraps net/http with context-driven graceful shutdown: Run (or
// Serve with an existing listener) blocks until the context is cancelled
// and then drains in-flight requests within Config.ShutdownTimeout.
// Signal handling belongs to the caller, typically via signal.NotifyContext.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg, router, log)
//	if err := srv.Run(ctx); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Liveness and Readiness provide probe handlers; readiness checks run with
// the request context so a slow dependency cannot outlive the probe.
package httpserver
