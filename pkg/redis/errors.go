package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Connect when Config.URL is unset.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrFailedToParseRedisConnString wraps go-redis URL parse failures.
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection URL")

	// ErrRedisNotReady means no ping succeeded within the retry budget.
	ErrRedisNotReady = errors.New("redis: server did not become ready")

	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
