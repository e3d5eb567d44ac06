package utils

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-driven settings for the bot
type Config struct {
	BotToken      string        `envconfig:"BOT_TOKEN"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	TopGGToken    string        `envconfig:"TOPGG_API_TOKEN"`
	ItemsDir      string        `envconfig:"ITEMS_DIR" default:"config/items"`
	LocationsDir  string        `envconfig:"LOCATIONS_DIR" default:"config/begging/locations"`
	DonatorsFile  string        `envconfig:"DONATORS_FILE" default:"config/begging/donators.toml"`
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"30s"`
	CacheIdleTTL  time.Duration `envconfig:"CACHE_IDLE_TTL" default:"30m"`
	HealthPort    string        `envconfig:"PORT" default:"8080"`
}

// LoadConfig reads the optional .env file and parses the environment
func LoadConfig() (*Config, error) {
	// Missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
