package config

import (
	"testing"
	"time"

	"cardy/internal/app"
)

func TestLoadGameConfigReadsShippedFile(t *testing.T) {
	if err := LoadGameConfig("../../data/game_config.json"); err != nil {
		t.Fatalf("LoadGameConfig() error = %v", err)
	}
	c := GetGameConfig()
	if c == nil {
		t.Fatal("GetGameConfig() = nil after load")
	}
	if c.CardsPerHand != 7 {
		t.Fatalf("CardsPerHand = %d, want 7", c.CardsPerHand)
	}
	if len(c.Decks) != 2 || !c.Decks[0].OriginalPack || !c.Decks[1].CanDropFromHand {
		t.Fatalf("Decks = %+v, want pack then discard", c.Decks)
	}
	if got := c.TicketTTL(); got != 5*time.Minute {
		t.Fatalf("TicketTTL() = %v, want 5m", got)
	}
	if len(c.ServiceOptions()) == 0 {
		t.Fatal("ServiceOptions() returned nothing for a loaded config")
	}
}

func TestParseGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "Empty", data: `{}`},
		{name: "CardsOnly", data: `{"cards_per_hand": 5}`},
		{name: "Malformed", data: `{"cards_per_hand":`, wantErr: true},
		{name: "NegativeCards", data: `{"cards_per_hand": -1}`, wantErr: true},
		{name: "NegativeAttempts", data: `{"max_save_attempts": -2}`, wantErr: true},
		{name: "NegativeTTL", data: `{"ticket_ttl_seconds": -60}`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(test.data))
			if (err != nil) != test.wantErr {
				t.Fatalf("ParseGameConfig() error = %v, wantErr %t", err, test.wantErr)
			}
		})
	}
}

func TestGameConfigFallbacks(t *testing.T) {
	var c *GameConfig
	if got := c.TicketTTL(); got != app.DefaultTicketTTL {
		t.Fatalf("nil TicketTTL() = %v, want %v", got, app.DefaultTicketTTL)
	}
	if opts := c.ServiceOptions(); opts != nil {
		t.Fatalf("nil ServiceOptions() = %d options, want none", len(opts))
	}
	c = &GameConfig{TicketTTLSeconds: 90}
	if got := c.TicketTTL(); got != 90*time.Second {
		t.Fatalf("TicketTTL() = %v, want 90s", got)
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("CARDY_ADDR", "127.0.0.1:9000")
	t.Setenv("CARDY_ALLOWED_ORIGINS", "example.com,cards.example.com")
	t.Setenv("CARDY_DB_PATH", "")
	t.Setenv("CARDY_OTEL_ENDPOINT", "")

	c, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() error = %v", err)
	}
	if c.Addr != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q, want 127.0.0.1:9000", c.Addr)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "cards.example.com" {
		t.Fatalf("AllowedOrigins = %v", c.AllowedOrigins)
	}
	if c.GameConfigPath != "data/game_config.json" {
		t.Fatalf("GameConfigPath = %q, want default", c.GameConfigPath)
	}
}
