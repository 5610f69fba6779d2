// Package store implements persistence of session records. Records can
// be kept in memory or in a SQLite database.
package store

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/foraging/experiment/tracker"
)

// Store persists session records. Init must be called before any
// other method.
type Store interface {
	Init(ctx context.Context) error
	SaveRecord(ctx context.Context, record tracker.Record) error
	GetRecord(ctx context.Context, id string) (tracker.Record, bool, error)

	// ListRecords returns all stored records ordered by seed
	ListRecords(ctx context.Context) ([]tracker.Record, error)
	Close() error
}

// Kinds of stores that NewStore can create
const (
	MemoryKind = "memory"
	SQLiteKind = "sqlite"
)

// NewStore returns a new, uninitialized Store of the given kind. The
// path is only used by SQLite stores.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", MemoryKind:
		return NewMemory(), nil
	case SQLiteKind:
		return NewSQLite(path), nil
	default:
		return nil, fmt.Errorf("newStore: unsupported store backend %q", kind)
	}
}
