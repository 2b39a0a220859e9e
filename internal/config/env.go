package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig configures the standalone WebSocket server.
type ServerConfig struct {
	Addr           string   `env:"CARDY_ADDR"            envDefault:":8080"`
	DBPath         string   `env:"CARDY_DB_PATH"         envDefault:"data/cardy.db"`
	AllowedOrigins []string `env:"CARDY_ALLOWED_ORIGINS" envSeparator:","`
	GameConfigPath string   `env:"CARDY_GAME_CONFIG"     envDefault:"data/game_config.json"`
	OTelEndpoint   string   `env:"CARDY_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServerConfig reads the standalone server settings from the environment.
func LoadServerConfig() (ServerConfig, error) {
	var c ServerConfig
	if err := ParseEnv(&c); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}
