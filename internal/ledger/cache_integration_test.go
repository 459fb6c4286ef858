//go:build integration

package ledger

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medblock/pkg/testutil/containers"
)

// countingClient counts pass-throughs so tests can tell a cache hit from
// a delegated lookup.
type countingClient struct {
	Client
	metadataCalls  atomic.Int64
	confirmedCalls atomic.Int64
}

func (c *countingClient) Metadata(ctx context.Context, ref Ref) (map[string]string, error) {
	c.metadataCalls.Add(1)
	return c.Client.Metadata(ctx, ref)
}

func (c *countingClient) Confirmed(ctx context.Context, ref Ref) (bool, error) {
	c.confirmedCalls.Add(1)
	return c.Client.Confirmed(ctx, ref)
}

func TestCachedClientServesMetadataFromRedis(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	inner := &countingClient{Client: NewHashChain()}
	cached := NewCachedClient(inner, rc.Client)

	meta := map[string]string{"kind": "record", "record_hash": "abc"}
	ref, err := cached.Notarize(ctx, "digest-1", meta)
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	// Notarize primed the cache; lookups never reach the chain.
	got, err := cached.Metadata(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.Equal(t, int64(0), inner.metadataCalls.Load())

	ok, err := cached.Confirmed(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), inner.confirmedCalls.Load())
}

func TestCachedClientFallsBackOnColdCache(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	inner := &countingClient{Client: NewHashChain()}
	cached := NewCachedClient(inner, rc.Client)

	meta := map[string]string{"kind": "consent"}
	ref, err := cached.Notarize(ctx, "digest-2", meta)
	require.NoError(t, err)

	require.NoError(t, rc.FlushAll(ctx))

	got, err := cached.Metadata(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.Equal(t, int64(1), inner.metadataCalls.Load(), "cold cache delegates once")

	// The fallback re-primed the cache.
	_, err = cached.Metadata(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.metadataCalls.Load())

	ok, err := cached.Confirmed(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), inner.confirmedCalls.Load())
}

func TestCachedClientUnknownRef(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	cached := NewCachedClient(NewHashChain(), rc.Client)

	ok, err := cached.Confirmed(ctx, "no-such-ref")
	require.NoError(t, err)
	assert.False(t, ok)
}
