package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// metadataTTL bounds how long a cached entry may serve reads. Entries are
// immutable once notarized, so the TTL only caps memory, not staleness.
const metadataTTL = time.Hour

// CachedClient decorates a Client with a redis read-through cache for
// Confirmed and Metadata lookups. Notarize always goes straight through.
// Cache failures degrade to the inner client; they never fail a lookup.
type CachedClient struct {
	inner Client
	rdb   *redis.Client
}

func NewCachedClient(inner Client, rdb *redis.Client) *CachedClient {
	return &CachedClient{inner: inner, rdb: rdb}
}

func (c *CachedClient) Notarize(ctx context.Context, digest string, metadata map[string]string) (Ref, error) {
	ref, err := c.inner.Notarize(ctx, digest, metadata)
	if err != nil {
		return "", err
	}
	if data, merr := json.Marshal(metadata); merr == nil {
		c.rdb.Set(ctx, metaKey(ref), data, metadataTTL)
	}
	return ref, nil
}

func (c *CachedClient) Confirmed(ctx context.Context, ref Ref) (bool, error) {
	n, err := c.rdb.Exists(ctx, metaKey(ref)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	ok, err := c.inner.Confirmed(ctx, ref)
	if err != nil || !ok {
		return ok, err
	}
	if meta, merr := c.inner.Metadata(ctx, ref); merr == nil {
		if data, jerr := json.Marshal(meta); jerr == nil {
			c.rdb.Set(ctx, metaKey(ref), data, metadataTTL)
		}
	}
	return true, nil
}

func (c *CachedClient) Metadata(ctx context.Context, ref Ref) (map[string]string, error) {
	raw, err := c.rdb.Get(ctx, metaKey(ref)).Result()
	if err == nil {
		var meta map[string]string
		if jerr := json.Unmarshal([]byte(raw), &meta); jerr == nil {
			return meta, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	meta, err := c.inner.Metadata(ctx, ref)
	if err != nil {
		return nil, err
	}
	if data, jerr := json.Marshal(meta); jerr == nil {
		c.rdb.Set(ctx, metaKey(ref), data, metadataTTL)
	}
	return meta, nil
}

func metaKey(ref Ref) string { return "ledger:tx:" + string(ref) }
