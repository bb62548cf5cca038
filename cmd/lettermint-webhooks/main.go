// Command lettermint-webhooks receives Lettermint webhook deliveries,
// verifies their signatures and logs each event.
//
// Configuration comes from the environment (and ./.env):
//
//	LETTERMINT_WEBHOOK_SECRET     signing secret (required)
//	LETTERMINT_WEBHOOK_TOLERANCE  allowed clock skew, default 5m
//	WEBHOOK_PATH                  default /webhooks/lettermint
//	HTTP_ADDR                     default :8080
//	REDIS_URL                     shared replay store; in-memory when unset
//	LOG_LEVEL, LOG_FORMAT         info/json by default
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lettermint/lettermint-go/pkg/httpserver"
	"github.com/lettermint/lettermint-go/pkg/logger"
	"github.com/lettermint/lettermint-go/pkg/redis"
	"github.com/lettermint/lettermint-go/pkg/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format := logger.Format(cfg.LogFormat)
	if format != logger.FormatJSON && format != logger.FormatText {
		return fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithService("lettermint-webhooks"),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	verifier, err := cfg.Lettermint.Webhook()
	if err != nil {
		return fmt.Errorf("webhook verifier: %w", err)
	}

	var (
		replay webhook.ReplayStore = webhook.NewMemoryReplayStore()
		checks []httpserver.Check
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		replay = webhook.NewRedisReplayStore(client, cfg.Redis.KeyPrefix)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		log.InfoContext(ctx, "using redis replay store")
	}

	router := newRouter(routerOptions{
		Path:     cfg.WebhookPath,
		Verifier: verifier,
		Replay:   replay,
		Checks:   checks,
		Logger:   log,
	})

	log.InfoContext(ctx, "listening",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("path", cfg.WebhookPath),
	)
	return httpserver.New(cfg.HTTP, router, log).Run(ctx)
}
