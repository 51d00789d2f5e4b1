package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// MessageStore selects the persistence backend: memory, redis or postgres.
	MessageStore string `env:"MESSAGE_STORE" default:"memory"`
	RedisURL     string `env:"REDIS_URL"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// SentimentDelay is how long a message stays pending before the deferred
	// classification runs.
	SentimentDelay time.Duration `env:"SENTIMENT_DELAY" default:"3s"`

	MaxClients          int     `env:"MAX_CLIENTS" default:"10000"`
	SubmitRatePerSecond float64 `env:"SUBMIT_RATE_PER_SECOND" default:"5"`
	SubmitBurst         int     `env:"SUBMIT_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.MessageStore {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when MESSAGE_STORE=%s", StoreRedis)
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when MESSAGE_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("MESSAGE_STORE must be one of %s, %s, %s (got %q)", StoreMemory, StoreRedis, StorePostgres, cfg.MessageStore)
	}

	if cfg.SentimentDelay <= 0 {
		return fmt.Errorf("SENTIMENT_DELAY must be positive, got %v", cfg.SentimentDelay)
	}
	if cfg.MaxClients <= 0 {
		return fmt.Errorf("MAX_CLIENTS must be positive, got %d", cfg.MaxClients)
	}
	if cfg.SubmitRatePerSecond <= 0 || cfg.SubmitBurst <= 0 {
		return fmt.Errorf("submission rate limit must be positive (rate %v, burst %d)", cfg.SubmitRatePerSecond, cfg.SubmitBurst)
	}

	return nil
}
