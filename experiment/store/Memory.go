package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/samuelfneumann/foraging/experiment/tracker"
)

var errNotInitialized = errors.New("store not initialized")

// Memory is a Store that keeps records in memory. Memory is safe for
// concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[string]tracker.Record
}

// NewMemory returns a new Memory store
func NewMemory() *Memory {
	return &Memory{}
}

// Init implements the Store interface. Init discards all stored
// records.
func (m *Memory) Init(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]tracker.Record)
	return nil
}

// SaveRecord implements the Store interface
func (m *Memory) SaveRecord(_ context.Context, record tracker.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records == nil {
		return errNotInitialized
	}
	m.records[record.ID] = record
	return nil
}

// GetRecord implements the Store interface
func (m *Memory) GetRecord(_ context.Context, id string) (tracker.Record,
	bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.records == nil {
		return tracker.Record{}, false, errNotInitialized
	}
	record, ok := m.records[id]
	return record, ok, nil
}

// ListRecords implements the Store interface
func (m *Memory) ListRecords(_ context.Context) ([]tracker.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.records == nil {
		return nil, errNotInitialized
	}

	records := make([]tracker.Record, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Seed != records[j].Seed {
			return records[i].Seed < records[j].Seed
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Close implements the Store interface
func (m *Memory) Close() error {
	return nil
}
