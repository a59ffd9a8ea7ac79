// Package sqlite provides a SQLite-backed best-score store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS best_scores (
	player     TEXT PRIMARY KEY,
	best       INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
)`

// opTimeout bounds each call made on behalf of a game session.
const opTimeout = 2 * time.Second

// PlayerBest is one row of the best-score table.
type PlayerBest struct {
	Player string
	Best   int
}

// Store persists best scores in SQLite. Safe for concurrent use.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Best returns the best score recorded for player, or 0 if there is none.
func (s *Store) Best(ctx context.Context, player string) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var best int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT best FROM best_scores WHERE player = ?`, normalizePlayer(player),
	).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return best, nil
}

// SaveBest records best for player. A stored value is never lowered.
func (s *Store) SaveBest(ctx context.Context, player string, best int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if best < 0 {
		return fmt.Errorf("best score must not be negative")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO best_scores (player, best, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(player) DO UPDATE SET
		   best = MAX(best, excluded.best),
		   updated_at = excluded.updated_at`,
		normalizePlayer(player), best, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save best score: %w", err)
	}
	return nil
}

// TopBests returns up to limit players ordered by best score, highest first.
// Ties are broken by who got there first.
func (s *Store) TopBests(ctx context.Context, limit int) ([]PlayerBest, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT player, best FROM best_scores
		 WHERE best > 0
		 ORDER BY best DESC, updated_at ASC, player ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []PlayerBest
	for rows.Next() {
		var pb PlayerBest
		if err := rows.Scan(&pb.Player, &pb.Best); err != nil {
			return nil, fmt.Errorf("scan top score: %w", err)
		}
		out = append(out, pb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top scores: %w", err)
	}
	return out, nil
}

// ForPlayer binds the store to one player so it can back a game session.
func (s *Store) ForPlayer(player string) *PlayerStore {
	return &PlayerStore{store: s, player: player}
}

// PlayerStore is a Store bound to a single player.
type PlayerStore struct {
	store  *Store
	player string
}

// LoadBest returns the player's best score.
func (p *PlayerStore) LoadBest() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return p.store.Best(ctx, p.player)
}

// SaveBest records the player's best score.
func (p *PlayerStore) SaveBest(best int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return p.store.SaveBest(ctx, p.player, best)
}

func normalizePlayer(player string) string {
	player = strings.TrimSpace(player)
	if player == "" {
		return "player"
	}
	return player
}
