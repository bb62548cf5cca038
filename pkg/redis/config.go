package redis

import "time"

// Config describes a Redis connection used for shared webhook replay state.
// An empty URL means Redis is not configured.
type Config struct {
	URL            string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"lettermint:webhook:seen:"`
}

// Enabled reports whether a connection URL is set.
func (c Config) Enabled() bool {
	return c.URL != ""
}
