package ledger

import (
	"context"
	"sync"
	"time"

	"medblock/pkg/platform/sentinel"
)

// HashChain is the in-memory ledger backend. It keeps the full chain and
// an index by reference; appends are serialized so the prev-link is never
// ambiguous. Suitable for tests and single-process deployments.
type HashChain struct {
	mu      sync.RWMutex
	entries []Entry
	byRef   map[Ref]int
	now     func() time.Time
}

func NewHashChain() *HashChain {
	return &HashChain{byRef: make(map[Ref]int), now: time.Now}
}

func (c *HashChain) Notarize(ctx context.Context, digest string, metadata map[string]string) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := genesisRef
	if n := len(c.entries); n > 0 {
		prev = c.entries[n-1].Ref
	}
	entry := Entry{
		Index:       uint64(len(c.entries)),
		PrevRef:     prev,
		Digest:      digest,
		Metadata:    copyMetadata(metadata),
		NotarizedAt: c.now().UTC(),
	}
	entry.Ref = chainRef(entry.PrevRef, entry.Index, entry.Digest, entry.Metadata, entry.NotarizedAt)

	c.entries = append(c.entries, entry)
	c.byRef[entry.Ref] = len(c.entries) - 1
	return entry.Ref, nil
}

func (c *HashChain) Confirmed(_ context.Context, ref Ref) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byRef[ref]
	return ok, nil
}

func (c *HashChain) Metadata(_ context.Context, ref Ref) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byRef[ref]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyMetadata(c.entries[i].Metadata), nil
}

// VerifyChain recomputes every chain hash from genesis and reports the
// index of the first corrupt entry, or -1 when the chain is intact.
func (c *HashChain) VerifyChain() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prev := genesisRef
	for i, e := range c.entries {
		if e.PrevRef != prev || chainRef(e.PrevRef, e.Index, e.Digest, e.Metadata, e.NotarizedAt) != e.Ref {
			return i
		}
		prev = e.Ref
	}
	return -1
}

// Len reports the chain height.
func (c *HashChain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
