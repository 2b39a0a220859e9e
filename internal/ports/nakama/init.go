package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"cardy/internal/app"
	"cardy/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

const defaultGameConfigPath = "data/game_config.json"

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	configPath := env[EnvGameConfig]
	if configPath == "" {
		configPath = defaultGameConfigPath
	}
	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()

	secret := env[EnvTicketSecret]
	if secret == "" {
		return fmt.Errorf("runtime env %s is required", EnvTicketSecret)
	}
	tickets := app.NewTicketService(secret, MatchLabelGame, cfg.TicketTTL())
	service := app.NewService(NewNakamaGameStore(nk), nil, cfg.ServiceOptions()...)

	if err := RegisterRPCs(initializer, service, tickets); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameCardy, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(service, tickets), nil
	}); err != nil {
		return err
	}

	logger.Info("Cardy Go module loaded.")
	return nil
}
