// Package storage provides SQLite-based persistence for the replay journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ReplayEntry is one recorded game. Journal holds the encoded input log;
// the remaining columns summarise it for listings without decoding.
type ReplayEntry struct {
	ID        int64
	GameID    string
	Player    string
	Seed      int64
	TickRate  int
	Frames    int64 // simulation ticks covered by the journal
	Journal   []byte
	Score     int
	Lines     int
	Level     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			journal TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_id ON replays(game_id);
		CREATE INDEX IF NOT EXISTS idx_replays_created ON replays(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReplay records a finished game. ID and CreatedAt are assigned by the
// database; the new ID is returned.
func (s *Store) SaveReplay(e ReplayEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO replays
		 (game_id, player, seed, tick_rate, frames, journal, score, lines, level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.GameID, e.Player, e.Seed, e.TickRate, e.Frames, string(e.Journal),
		e.Score, e.Lines, e.Level,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save replay: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const replayColumns = `id, game_id, player, seed, tick_rate, frames, journal, score, lines, level, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReplay(sc rowScanner) (ReplayEntry, error) {
	var e ReplayEntry
	var journal string
	var createdAt any
	err := sc.Scan(&e.ID, &e.GameID, &e.Player, &e.Seed, &e.TickRate, &e.Frames,
		&journal, &e.Score, &e.Lines, &e.Level, &createdAt)
	if err != nil {
		return ReplayEntry{}, err
	}
	e.Journal = []byte(journal)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ReplayByID retrieves a replay with its journal.
// Returns nil without error when no replay has that ID.
func (s *Store) ReplayByID(id int64) (*ReplayEntry, error) {
	row := s.db.QueryRow(`SELECT `+replayColumns+` FROM replays WHERE id = ?`, id)
	e, err := scanReplay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return &e, nil
}

// RecentReplays retrieves the newest replays, optionally filtered by game
// ID (empty means all games). Journals are not loaded.
func (s *Store) RecentReplays(gameID string, limit int) ([]ReplayEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, seed, tick_rate, frames, '', score, lines, level, created_at
		 FROM replays
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		e, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Journal = nil
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// CountReplays returns the number of stored replays for a game, or for all
// games when gameID is empty.
func (s *Store) CountReplays(gameID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM replays WHERE ? = '' OR game_id = ?`,
		gameID, gameID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count replays: %w", err)
	}
	return n, nil
}

// DeleteReplay removes a replay. It reports whether a row was deleted.
func (s *Store) DeleteReplay(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}
