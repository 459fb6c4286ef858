//go:build integration

package records

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
	"medblock/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	pg := containers.NewPostgresContainer(t)
	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, Schema)
	require.NoError(t, err)
	return NewPostgresStore(pool)
}

func TestPostgresStoreSaveAndFind(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := Record{
		ID:           domain.NewRecordID(),
		SubjectDID:   "did:med:alice",
		AuthorDID:    "did:med:okafor",
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "blood-pressure", "systolic": float64(120)},
		ContentHash:  "hash-1",
		LedgerRef:    "lref-1",
		CreatedAt:    now,
	}
	require.NoError(t, store.Save(ctx, record))

	got, err := store.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Payload, got.Payload)
	assert.Equal(t, record.ContentHash, got.ContentHash)
	assert.Equal(t, record.LedgerRef, got.LedgerRef)

	_, err = store.FindByID(ctx, domain.NewRecordID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStoreRejectsDuplicateContentHash(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := Record{
		ID:           domain.NewRecordID(),
		SubjectDID:   "did:med:alice",
		AuthorDID:    "did:med:okafor",
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "hr"},
		ContentHash:  "same-hash",
		LedgerRef:    "lref-a",
		CreatedAt:    now,
	}
	require.NoError(t, store.Save(ctx, first))

	dup := first
	dup.ID = domain.NewRecordID()
	dup.LedgerRef = "lref-b"
	assert.ErrorIs(t, store.Save(ctx, dup), sentinel.ErrConflict)
}

func TestPostgresStoreListBySubject(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i, hash := range []string{"h1", "h2", "h3"} {
		require.NoError(t, store.Save(ctx, Record{
			ID:           domain.NewRecordID(),
			SubjectDID:   "did:med:alice",
			AuthorDID:    "did:med:okafor",
			ResourceType: domain.ResourceObservation,
			Payload:      map[string]any{"n": float64(i)},
			ContentHash:  hash,
			LedgerRef:    "lref-" + hash,
			CreatedAt:    now.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, store.Save(ctx, Record{
		ID:           domain.NewRecordID(),
		SubjectDID:   "did:med:bob",
		AuthorDID:    "did:med:okafor",
		ResourceType: domain.ResourceEncounter,
		Payload:      map[string]any{"ward": "3b"},
		ContentHash:  "other",
		LedgerRef:    "lref-other",
		CreatedAt:    now,
	}))

	list, err := store.ListBySubject(ctx, "did:med:alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "h3", list[0].ContentHash, "newest first")
	assert.Equal(t, "h1", list[2].ContentHash)
}
