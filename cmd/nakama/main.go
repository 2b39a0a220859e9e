// Command nakama builds the cardy plugin for the Nakama Go runtime:
//
//	go build -buildmode=plugin -trimpath -o ./modules/cardy.so ./cmd/nakama
package main

import (
	"context"
	"database/sql"

	"cardy/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule is the symbol Nakama looks up when loading the plugin.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakama.InitModule(ctx, logger, db, nk, initializer)
}
