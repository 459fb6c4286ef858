package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

func entryAt(accessor, subject domain.DID, decidedAt time.Time, ref ledger.Ref) Entry {
	return Entry{
		ID:           domain.NewEntryID(),
		AccessorDID:  accessor,
		SubjectDID:   subject,
		ResourceType: domain.ResourceObservation,
		ResourceID:   domain.NewRecordID(),
		Action:       domain.ActionRead,
		DecidedAt:    decidedAt,
		LedgerRef:    ref,
	}
}

func TestInMemoryStore_AppendRejectsDuplicateLedgerRef(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	accessor := domain.DID("did:med:accessor")
	subject := domain.DID("did:med:subject")

	require.NoError(t, store.Append(ctx, entryAt(accessor, subject, time.Now(), "ref-1")))
	err := store.Append(ctx, entryAt(accessor, subject, time.Now(), "ref-1"))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryStore_ListsNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	accessor := domain.DID("did:med:accessor")
	subject := domain.DID("did:med:subject")
	other := domain.DID("did:med:other")
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		ref := ledger.Ref(string(rune('a' + i)))
		require.NoError(t, store.Append(ctx, entryAt(accessor, subject, base.Add(time.Duration(i)*time.Second), ref)))
	}
	require.NoError(t, store.Append(ctx, entryAt(accessor, other, base, "other-ref")))

	entries, err := store.ListBySubject(ctx, subject, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].DecidedAt.After(entries[1].DecidedAt))
	assert.True(t, entries[1].DecidedAt.After(entries[2].DecidedAt))

	all, err := store.ListByAccessor(ctx, accessor, 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

type captureStreamer struct {
	entries []Entry
}

func (c *captureStreamer) Publish(_ context.Context, entry Entry) {
	c.entries = append(c.entries, entry)
}

func TestService_AppendFillsDefaultsAndStreams(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	streamer := &captureStreamer{}
	svc := NewService(store, streamer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	entry := Entry{
		AccessorDID:  domain.DID("did:med:accessor"),
		SubjectDID:   domain.DID("did:med:subject"),
		ResourceType: domain.ResourceObservation,
		ResourceID:   domain.NewRecordID(),
		Action:       domain.ActionRead,
		LedgerRef:    "ref-1",
	}
	require.NoError(t, svc.Append(ctx, entry))

	got, err := svc.ForSubject(ctx, entry.SubjectDID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].ID.IsNil())
	assert.False(t, got[0].DecidedAt.IsZero())

	require.Len(t, streamer.entries, 1)
	assert.Equal(t, got[0].ID, streamer.entries[0].ID)
}

func TestService_AppendWithoutStreamer(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	entry := entryAt(domain.DID("did:med:a"), domain.DID("did:med:s"), time.Now(), "ref-1")
	require.NoError(t, svc.Append(context.Background(), entry))
}
