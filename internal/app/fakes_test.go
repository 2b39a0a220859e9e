package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"testing"

	"cardy/internal/domain"
	"cardy/internal/ports"
)

type storedGame struct {
	data    []byte
	version int
}

// memStore keeps games as JSON so every Load hands out an independent copy.
type memStore struct {
	mu        sync.Mutex
	games     map[string]*storedGame
	conflicts int // forced conflicts for the next saves
	ambiguous bool
	saves     int
}

func newMemStore() *memStore {
	return &memStore{games: map[string]*storedGame{}}
}

func (m *memStore) Load(_ context.Context, code string) (ports.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ambiguous {
		return ports.Snapshot{}, ports.ErrAmbiguous
	}
	sg, ok := m.games[strings.ToUpper(code)]
	if !ok {
		return ports.Snapshot{}, ports.ErrNotFound
	}
	var g domain.Game
	if err := json.Unmarshal(sg.data, &g); err != nil {
		return ports.Snapshot{}, err
	}
	return ports.Snapshot{Game: &g, Version: strconv.Itoa(sg.version)}, nil
}

func (m *memStore) Save(_ context.Context, snap ports.Snapshot) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.conflicts > 0 {
		m.conflicts--
		return "", ports.ErrVersionConflict
	}
	data, err := json.Marshal(snap.Game)
	if err != nil {
		return "", err
	}
	code := strings.ToUpper(snap.Game.Code)
	sg, exists := m.games[code]
	switch {
	case snap.Version == "" && exists:
		return "", ports.ErrVersionConflict
	case snap.Version == "":
		sg = &storedGame{}
		m.games[code] = sg
	case !exists || strconv.Itoa(sg.version) != snap.Version:
		return "", ports.ErrVersionConflict
	}
	sg.version++
	sg.data = data
	return strconv.Itoa(sg.version), nil
}

// edit changes a stored game outside the service, as another writer would.
func (m *memStore) edit(t *testing.T, code string, fn func(g *domain.Game)) {
	t.Helper()
	snap, err := m.Load(context.Background(), code)
	if err != nil {
		t.Fatalf("load %s: %v", code, err)
	}
	fn(snap.Game)
	if _, err := m.Save(context.Background(), snap); err != nil {
		t.Fatalf("save %s: %v", code, err)
	}
}

func (m *memStore) game(t *testing.T, code string) *domain.Game {
	t.Helper()
	snap, err := m.Load(context.Background(), code)
	if err != nil {
		t.Fatalf("load %s: %v", code, err)
	}
	return snap.Game
}

type delivered struct {
	connID  string
	message []byte
}

type recordingDeliverer struct {
	mu   sync.Mutex
	sent []delivered
}

func (d *recordingDeliverer) Deliver(_ context.Context, connID string, message []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, delivered{connID: connID, message: message})
	return nil
}
