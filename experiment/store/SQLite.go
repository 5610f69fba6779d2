package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/samuelfneumann/foraging/experiment/tracker"
)

// SQLite is a Store that keeps records in a SQLite database. Each
// record is stored as a JSON payload keyed by its ID. Seeds are stored
// as zero-padded decimal text so that every uint64 seed sorts in
// numeric order. SQLite is safe for concurrent use.
type SQLite struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLite returns a new SQLite store of the database at path
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

// Init implements the Store interface. Init opens the database and
// creates its tables if needed. Stored records are kept.
func (s *SQLite) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("init: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("init: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			num_arms INTEGER NOT NULL,
			num_trials INTEGER NOT NULL,
			total_reward INTEGER NOT NULL,
			payload BLOB NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init: create tables: %w", err)
	}

	s.db = db
	return nil
}

// SaveRecord implements the Store interface. Saving a record with the
// ID of a stored record replaces it.
func (s *SQLite) SaveRecord(ctx context.Context, record tracker.Record) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("saveRecord: encode record %s: %w", record.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (id, seed, num_arms, num_trials, total_reward,
			payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			num_arms = excluded.num_arms,
			num_trials = excluded.num_trials,
			total_reward = excluded.total_reward,
			payload = excluded.payload
	`, record.ID, seedKey(record.Seed), record.NumArms, record.NumTrials,
		record.TotalReward(), payload)
	if err != nil {
		return fmt.Errorf("saveRecord: %w", err)
	}
	return nil
}

// GetRecord implements the Store interface
func (s *SQLite) GetRecord(ctx context.Context, id string) (tracker.Record,
	bool, error) {
	db, err := s.getDB()
	if err != nil {
		return tracker.Record{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM records WHERE id = ?`,
		id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tracker.Record{}, false, nil
		}
		return tracker.Record{}, false, fmt.Errorf("getRecord: %w", err)
	}

	record, err := decodeRecord(payload)
	if err != nil {
		return tracker.Record{}, false, fmt.Errorf("getRecord: %s: %w", id,
			err)
	}
	return record, true, nil
}

// ListRecords implements the Store interface
func (s *SQLite) ListRecords(ctx context.Context) ([]tracker.Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT payload FROM records ORDER BY seed, id`)
	if err != nil {
		return nil, fmt.Errorf("listRecords: %w", err)
	}
	defer rows.Close()

	var records []tracker.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("listRecords: %w", err)
		}

		record, err := decodeRecord(payload)
		if err != nil {
			return nil, fmt.Errorf("listRecords: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listRecords: %w", err)
	}
	return records, nil
}

// Close implements the Store interface
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLite) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

// seedKey returns seed as text that sorts in the numeric order of seeds
func seedKey(seed uint64) string {
	return fmt.Sprintf("%020d", seed)
}

func decodeRecord(payload []byte) (tracker.Record, error) {
	var record tracker.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return tracker.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
