package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"cardy/internal/app"
	"cardy/internal/domain"
)

// GameConfig holds the table defaults shared by every game a server hosts.
type GameConfig struct {
	CardsPerHand int                     `json:"cards_per_hand"`
	Decks        []domain.DeckDefinition `json:"decks"`
	// MaxSaveAttempts bounds the reload-and-retry loop after a concurrent save.
	MaxSaveAttempts  int `json:"max_save_attempts"`
	TicketTTLSeconds int `json:"ticket_ttl_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = ParseGameConfig(data)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when none was loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// ParseGameConfig decodes and checks a game configuration document.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.CardsPerHand < 0 {
		return nil, fmt.Errorf("cards_per_hand must not be negative, got %d", c.CardsPerHand)
	}
	if c.MaxSaveAttempts < 0 {
		return nil, fmt.Errorf("max_save_attempts must not be negative, got %d", c.MaxSaveAttempts)
	}
	if c.TicketTTLSeconds < 0 {
		return nil, fmt.Errorf("ticket_ttl_seconds must not be negative, got %d", c.TicketTTLSeconds)
	}
	return &c, nil
}

// TicketTTL returns the join ticket lifetime, falling back to app.DefaultTicketTTL.
func (c *GameConfig) TicketTTL() time.Duration {
	if c == nil || c.TicketTTLSeconds == 0 {
		return app.DefaultTicketTTL
	}
	return time.Duration(c.TicketTTLSeconds) * time.Second
}

// ServiceOptions turns the configuration into app.Service options. Unset values keep the service defaults.
func (c *GameConfig) ServiceOptions() []app.Option {
	if c == nil {
		return nil
	}
	return []app.Option{
		app.WithMaxSaveAttempts(c.MaxSaveAttempts),
		app.WithDefaults(app.Defaults{CardsPerHand: c.CardsPerHand, Decks: c.Decks}),
	}
}
