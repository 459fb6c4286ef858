package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	byRef   map[ledger.Ref]bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byRef: make(map[ledger.Ref]bool)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byRef[entry.LedgerRef] {
		return fmt.Errorf("%w: ledger ref %s already recorded", sentinel.ErrConflict, entry.LedgerRef)
	}
	s.entries = append(s.entries, entry)
	s.byRef[entry.LedgerRef] = true
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject domain.DID, limit int) ([]Entry, error) {
	return s.list(func(e Entry) bool { return e.SubjectDID == subject }, limit)
}

func (s *InMemoryStore) ListByAccessor(_ context.Context, accessor domain.DID, limit int) ([]Entry, error) {
	return s.list(func(e Entry) bool { return e.AccessorDID == accessor }, limit)
}

func (s *InMemoryStore) list(match func(Entry) bool, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, e := range s.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DecidedAt.After(out[j].DecidedAt) })
	if max := normalizeLimit(limit); len(out) > max {
		out = out[:max]
	}
	return out, nil
}

// Len reports the total number of entries; used by tests asserting that
// denied attempts write nothing.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
