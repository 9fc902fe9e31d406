package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	task       TEXT NOT NULL,
	config     TEXT NOT NULL,  -- JSON thinking.Config
	state      TEXT NOT NULL,  -- JSON thinking.State
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at DESC);
`

// SQLiteStore is the file-backed session store. State survives process
// restarts, which lets a client resume sessions after a server crash and
// lets `deepthink sessions` inspect past runs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// initializes the schema. The special path ":memory:" creates a transient
// database, useful in tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL keeps readers (session listing) from blocking the serve loop.
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, task, config, state, created_at, updated_at FROM sessions WHERE id = ?`, id)

	var rec Record
	var configJSON, stateJSON string
	err := row.Scan(&rec.ID, &rec.Task, &configJSON, &stateJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return nil, fmt.Errorf("failed to decode state for session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec *Record) error {
	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	now := time.Now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, task, config, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task = excluded.task,
			config = excluded.config,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Task, string(configJSON), string(stateJSON), created, now)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task, config, state, created_at, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		var configJSON, stateJSON string
		if err := rows.Scan(&rec.ID, &rec.Task, &configJSON, &stateJSON,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
			return nil, fmt.Errorf("failed to decode config for session %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
			return nil, fmt.Errorf("failed to decode state for session %s: %w", rec.ID, err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// compile-time interface checks
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
