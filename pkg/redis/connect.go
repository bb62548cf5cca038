package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/lettermint/lettermint-go/pkg/retry"
)

// Connect parses cfg.URL and pings the server until it answers, retrying
// cfg.RetryAttempts times with cfg.RetryInterval between attempts.
// The whole operation is bounded by cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client, err := retry.Value(ctx, func(ctx context.Context) (*redis.Client, error) {
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return nil, err
		}
		return c, nil
	},
		retry.WithMaxAttempts(max(cfg.RetryAttempts, 1)),
		retry.WithBackoff(retry.Constant{Interval: cfg.RetryInterval}),
	)
	if err != nil {
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}
