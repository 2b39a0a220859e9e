package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cardy/internal/domain"
	"cardy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameCollection = "cardy_games"

// NakamaGameStore keeps games as system-owned storage objects keyed by join code.
// The object version doubles as the optimistic concurrency token.
type NakamaGameStore struct {
	nk runtime.NakamaModule
}

// NewNakamaGameStore creates a new game store over Nakama storage.
func NewNakamaGameStore(nk runtime.NakamaModule) *NakamaGameStore {
	return &NakamaGameStore{nk: nk}
}

// Load reads the game with the given code. Keys are unique, so ErrAmbiguous is never returned.
func (s *NakamaGameStore) Load(ctx context.Context, code string) (ports.Snapshot, error) {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: gameCollection,
			Key:        strings.ToUpper(code),
		},
	})
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("failed to read game %s: %w", code, err)
	}
	if len(objects) == 0 {
		return ports.Snapshot{}, ports.ErrNotFound
	}

	var g domain.Game
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &g); err != nil {
		return ports.Snapshot{}, fmt.Errorf("failed to unmarshal game %s: %w", code, err)
	}
	return ports.Snapshot{Game: &g, Version: objects[0].GetVersion()}, nil
}

// Save writes the game if the stored version still matches snap.Version.
func (s *NakamaGameStore) Save(ctx context.Context, snap ports.Snapshot) (string, error) {
	if snap.Game == nil {
		return "", fmt.Errorf("game is required")
	}
	value, err := json.Marshal(snap.Game)
	if err != nil {
		return "", fmt.Errorf("failed to marshal game %s: %w", snap.Game.Code, err)
	}

	version := snap.Version
	if version == "" {
		// Only succeeds when no object exists under the key yet.
		version = "*"
	}
	acks, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      gameCollection,
			Key:             strings.ToUpper(snap.Game.Code),
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return "", ports.ErrVersionConflict
		}
		return "", fmt.Errorf("failed to write game %s: %w", snap.Game.Code, err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("failed to write game %s: no acknowledgement", snap.Game.Code)
	}
	return acks[0].GetVersion(), nil
}

var _ ports.GameStore = (*NakamaGameStore)(nil)
