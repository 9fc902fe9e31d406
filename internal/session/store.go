// Package session persists refinement sessions between tool calls.
//
// The engine in internal/thinking is pure; everything it needs between two
// calls lives in a Record keyed by an opaque session ID. Store is the
// injection point that keeps the engine free of persistence concerns and
// lets the server swap the in-memory default for a file-backed database.
//
// Concurrency note: stores serialize individual Get/Put calls, but a
// read-modify-write across two calls is not atomic. Callers must not
// interleave concurrent requests bearing the same session ID.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/steveyegge/deepthink/internal/thinking"
)

// ErrNotFound is returned by Get and Delete for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Record is the unit of persistence: one refinement session, including the
// original task (threaded explicitly rather than recovered from history) and
// the config it was started with.
type Record struct {
	ID        string          `json:"id"`
	Task      string          `json:"task"`
	Config    thinking.Config `json:"config"`
	State     thinking.State  `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store defines the session persistence backend.
type Store interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Put inserts or replaces the record, updating its UpdatedAt stamp.
	Put(ctx context.Context, rec *Record) error

	// Delete removes the record for id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}
