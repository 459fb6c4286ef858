package consent

import (
	"context"
	"sort"
	"sync"
	"time"

	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// InMemoryStore keeps grants in a map behind a single RWMutex. Revoke and
// FindActive share that lock, which gives the revoke/authorize ordering
// guarantee for free.
type InMemoryStore struct {
	mu     sync.RWMutex
	grants map[domain.ConsentID]Grant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{grants: make(map[domain.ConsentID]Grant)}
}

func (s *InMemoryStore) Save(_ context.Context, grant Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grant.ID] = grant
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ConsentID) (Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[id]
	if !ok {
		return Grant{}, sentinel.ErrNotFound
	}
	return grant, nil
}

func (s *InMemoryStore) Revoke(_ context.Context, id domain.ConsentID, revokedAt time.Time) (Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.grants[id]
	if !ok {
		return Grant{}, sentinel.ErrNotFound
	}
	if grant.RevokedAt != nil {
		return grant, nil
	}
	if grant.EffectiveStatus(revokedAt) == StatusExpired {
		return grant, nil
	}

	at := revokedAt
	grant.Status = StatusRevoked
	grant.RevokedAt = &at
	s.grants[id] = grant
	return grant, nil
}

func (s *InMemoryStore) FindActive(_ context.Context, subject, grantee domain.DID, resourceType domain.ResourceType, now time.Time) (Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best Grant
	found := false
	for _, g := range s.grants {
		if g.SubjectDID != subject || g.GranteeDID != grantee {
			continue
		}
		if !g.IsActive(now) || !g.Scope.Contains(resourceType) {
			continue
		}
		if !found || g.GrantedAt.After(best.GrantedAt) {
			best = g
			found = true
		}
	}
	if !found {
		return Grant{}, sentinel.ErrNotFound
	}
	return best, nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject domain.DID) ([]Grant, error) {
	return s.list(func(g Grant) bool { return g.SubjectDID == subject })
}

func (s *InMemoryStore) ListByGrantee(_ context.Context, grantee domain.DID) ([]Grant, error) {
	return s.list(func(g Grant) bool { return g.GranteeDID == grantee })
}

func (s *InMemoryStore) list(match func(Grant) bool) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Grant
	for _, g := range s.grants {
		if match(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GrantedAt.After(out[j].GrantedAt) })
	return out, nil
}
