package ports

import (
	"context"
	"errors"

	"cardy/internal/domain"
)

var (
	// ErrNotFound is returned by Load when no game has the code.
	ErrNotFound = errors.New("game not found")
	// ErrAmbiguous is returned by Load when more than one game has the code.
	ErrAmbiguous = errors.New("game code is ambiguous")
	// ErrVersionConflict is returned by Save when the stored game changed since it was loaded.
	ErrVersionConflict = errors.New("game version conflict")
)

// Snapshot is a loaded game together with the version it was read at.
// An empty Version marks a game that has never been saved.
type Snapshot struct {
	Game    *domain.Game
	Version string
}

// GameStore persists whole game aggregates with optimistic versioning.
type GameStore interface {
	// Load returns the single game whose code matches (case-insensitive).
	Load(ctx context.Context, code string) (Snapshot, error)

	// Save writes the game if the stored version still equals snap.Version and returns the new version.
	// Saving a snapshot with an empty version inserts a new game.
	Save(ctx context.Context, snap Snapshot) (string, error)
}
