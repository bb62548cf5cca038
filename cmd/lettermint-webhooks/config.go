package main

import (
	"github.com/caarlos0/env/v11"

	"github.com/lettermint/lettermint-go"
	"github.com/lettermint/lettermint-go/pkg/httpserver"
	"github.com/lettermint/lettermint-go/pkg/redis"
)

type config struct {
	Lettermint lettermint.Config
	HTTP       httpserver.Config
	Redis      redis.Config

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"/webhooks/lettermint"`
}

// loadConfig reads ./.env when present, then the process environment.
func loadConfig() (config, error) {
	lm, err := lettermint.LoadConfig()
	if err != nil {
		return config{}, err
	}
	cfg := config{Lettermint: lm}
	if err := env.Parse(&cfg.HTTP); err != nil {
		return config{}, err
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
