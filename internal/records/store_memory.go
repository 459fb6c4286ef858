package records

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.RecordID]Record
	byHash  map[string]domain.RecordID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[domain.RecordID]Record),
		byHash:  make(map[string]domain.RecordID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byHash[record.ContentHash]; ok && existing != record.ID {
		return fmt.Errorf("%w: content hash already stored on record %s", sentinel.ErrConflict, existing)
	}
	if _, ok := s.records[record.ID]; ok {
		return fmt.Errorf("%w: record %s already exists", sentinel.ErrConflict, record.ID)
	}
	s.records[record.ID] = record
	s.byHash[record.ContentHash] = record.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.RecordID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject domain.DID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if r.SubjectDID == subject {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Corrupt overwrites a stored record's content hash in place. Test-only
// hook for simulating tampering with the persistence layer.
func (s *InMemoryStore) Corrupt(id domain.RecordID, contentHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return false
	}
	record.ContentHash = contentHash
	s.records[id] = record
	return true
}
