package lettermint

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lettermint/lettermint-go/pkg/webhook"
)

// Config holds client and webhook settings loaded from the environment
// and, optionally, a YAML file. Environment variables always win.
type Config struct {
	APIToken  string        `env:"LETTERMINT_API_TOKEN" yaml:"api_token"`
	BaseURL   string        `env:"LETTERMINT_BASE_URL" yaml:"base_url"`
	Timeout   time.Duration `env:"LETTERMINT_TIMEOUT" yaml:"timeout"`
	UserAgent string        `env:"LETTERMINT_USER_AGENT" yaml:"user_agent"`
	From      string        `env:"LETTERMINT_FROM" yaml:"from"`

	// DevDir switches the client to a DevTransport writing into the directory.
	DevDir string `env:"LETTERMINT_DEV_DIR" yaml:"dev_dir"`

	WebhookSecret    string        `env:"LETTERMINT_WEBHOOK_SECRET" yaml:"webhook_secret"`
	WebhookTolerance time.Duration `env:"LETTERMINT_WEBHOOK_TOLERANCE" yaml:"webhook_tolerance"`
}

// LoadConfig reads configuration from the environment. Listed dotenv
// files are loaded first and must exist; without arguments a ./.env file
// is loaded when present. Variables already set in the process environment
// are never overridden by dotenv files.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := loadDotenv(envFiles); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

// LoadConfigFile reads a YAML file and then applies environment overrides.
func LoadConfigFile(path string, envFiles ...string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read config file: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse config file: %w", ErrInvalidConfig, err)
	}

	if err := loadDotenv(envFiles); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: load .env: %w", ErrInvalidConfig, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("%w: load env files: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.WebhookTolerance == 0 {
		c.WebhookTolerance = webhook.DefaultTolerance
	}
}

// Validate checks values that would otherwise fail late. The API token is
// checked by NewFromConfig so that webhook-only deployments can omit it.
func (c Config) Validate() error {
	var errs []error
	if _, err := normalizeBaseURL(c.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig))
	}
	if c.WebhookTolerance < 0 {
		errs = append(errs, fmt.Errorf("%w: webhook tolerance must not be negative", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Options converts the configuration into client options.
func (c Config) Options() []Option {
	opts := []Option{
		WithBaseURL(c.BaseURL),
		WithTimeout(c.Timeout),
		WithUserAgent(c.UserAgent),
	}
	if c.From != "" {
		opts = append(opts, WithDefaultFrom(c.From))
	}
	if c.DevDir != "" {
		opts = append(opts, WithTransport(NewDevTransport(c.DevDir)))
	}
	return opts
}

// NewFromConfig creates a client from cfg. Extra options are applied after
// the configured ones.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.APIToken, append(cfg.Options(), opts...)...)
}

// Webhook creates a verifier from the webhook settings.
func (c Config) Webhook(opts ...webhook.Option) (*webhook.Webhook, error) {
	return webhook.New(c.WebhookSecret, append([]webhook.Option{webhook.WithTolerance(c.WebhookTolerance)}, opts...)...)
}
