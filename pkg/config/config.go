package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ruixianxue/trading-simulator/pkg/postgresql"
)

// MustLoad loads the configuration from environment variables and .env file,
// panicking on failure.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional
// .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is fine, env vars still apply

	return env.Parse(cfg)
}

// Config holds the configuration for the trading simulator.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
	TradeFeed  TradeFeedConfig   `envPrefix:"KAFKA_"`
}

// TradeFeedConfig holds the configuration for the optional Kafka trade feed.
// The feed is disabled when no brokers are configured.
type TradeFeedConfig struct {
	Brokers []string `env:"BROKER" envDefault:""`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// Enabled reports whether a trade feed publisher should be wired up.
func (c TradeFeedConfig) Enabled() bool {
	return len(c.Brokers) > 0
}
