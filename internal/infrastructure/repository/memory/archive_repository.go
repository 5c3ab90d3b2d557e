package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/redzone/internal/domain/archive"
)

// ArchiveRepository keeps archive records in memory, keyed the same way the
// postgres table is. Used when no archive database is configured and in tests.
type ArchiveRepository struct {
	mu      sync.RWMutex
	records map[string]archive.Record
}

func NewArchiveRepository() *ArchiveRepository {
	return &ArchiveRepository{records: make(map[string]archive.Record)}
}

func (r *ArchiveRepository) UpsertMany(_ context.Context, items []archive.Record) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.records[item.Source+"|"+item.EntityType+"|"+item.EntityKey] = item
	}
	return nil
}

// All returns a copy of every stored record.
func (r *ArchiveRepository) All() []archive.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]archive.Record, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out
}

// Len reports the number of distinct archived entities.
func (r *ArchiveRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
