// Package sqlite provides a SQLite-backed game storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cardy/internal/domain"
	"cardy/internal/ports"
	"cardy/internal/storage/sqlite/migrations"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists games in SQLite. Each row carries a version that every save must match.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite game store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the game stored under code. Codes are the primary key, so ErrAmbiguous is never returned.
func (s *Store) Load(ctx context.Context, code string) (ports.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return ports.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return ports.Snapshot{}, fmt.Errorf("storage is not configured")
	}

	var (
		stateJSON []byte
		version   int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT state_json, version FROM games WHERE code = ?`,
		strings.ToUpper(strings.TrimSpace(code)),
	).Scan(&stateJSON, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Snapshot{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("get game %s: %w", code, err)
	}

	var g domain.Game
	if err := json.Unmarshal(stateJSON, &g); err != nil {
		return ports.Snapshot{}, fmt.Errorf("decode game %s: %w", code, err)
	}
	return ports.Snapshot{Game: &g, Version: strconv.FormatInt(version, 10)}, nil
}

// Save inserts the game when snap.Version is empty and otherwise updates it if the stored version still matches.
func (s *Store) Save(ctx context.Context, snap ports.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if snap.Game == nil {
		return "", fmt.Errorf("game is required")
	}
	code := strings.ToUpper(snap.Game.Code)
	if code == "" {
		return "", fmt.Errorf("game code is required")
	}
	stateJSON, err := json.Marshal(snap.Game)
	if err != nil {
		return "", fmt.Errorf("encode game %s: %w", code, err)
	}
	now := toMillis(s.clock())

	if snap.Version == "" {
		_, err := s.sqlDB.ExecContext(ctx,
			`INSERT INTO games (code, game_id, name, lifecycle, state_json, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
			code, snap.Game.ID, snap.Game.Name, string(snap.Game.Lifecycle), stateJSON, now, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return "", ports.ErrVersionConflict
			}
			return "", fmt.Errorf("insert game %s: %w", code, err)
		}
		return "1", nil
	}

	version, err := strconv.ParseInt(snap.Version, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", snap.Version, err)
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE games
		    SET name = ?, lifecycle = ?, state_json = ?, version = version + 1, updated_at = ?
		  WHERE code = ? AND version = ?`,
		snap.Game.Name, string(snap.Game.Lifecycle), stateJSON, now, code, version,
	)
	if err != nil {
		return "", fmt.Errorf("update game %s: %w", code, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("update game %s: %w", code, err)
	}
	if rows == 0 {
		return "", ports.ErrVersionConflict
	}
	return strconv.FormatInt(version+1, 10), nil
}

// CountByLifecycle reports how many stored games are in each lifecycle.
func (s *Store) CountByLifecycle(ctx context.Context) (map[domain.Lifecycle]int, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT lifecycle, COUNT(*) FROM games GROUP BY lifecycle`)
	if err != nil {
		return nil, fmt.Errorf("count games: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Lifecycle]int)
	for rows.Next() {
		var (
			lifecycle string
			count     int
		)
		if err := rows.Scan(&lifecycle, &count); err != nil {
			return nil, fmt.Errorf("scan game count: %w", err)
		}
		counts[domain.Lifecycle(lifecycle)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game counts: %w", err)
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") && strings.Contains(message, "games.code")
}

var _ ports.GameStore = (*Store)(nil)
