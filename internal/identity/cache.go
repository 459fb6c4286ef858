package identity

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// documentTTL bounds how long a resolved document may be served from
// cache. Key rotation on the identity network propagates within this
// window at worst.
const documentTTL = time.Hour

type cachedDocument struct {
	DID       domain.DID `json:"did"`
	Kind      Kind       `json:"kind"`
	Name      string     `json:"name"`
	PublicKey string     `json:"public_key"`
	CreatedAt time.Time  `json:"created_at"`
}

// CachedResolver decorates a Resolver with a redis read-through cache of
// resolved documents. Signature verification still runs the real
// ed25519 check against the cached key material; a cache hit is never
// treated as proof of authenticity on its own.
type CachedResolver struct {
	inner Resolver
	rdb   *redis.Client
}

func NewCachedResolver(inner Resolver, rdb *redis.Client) *CachedResolver {
	return &CachedResolver{inner: inner, rdb: rdb}
}

func (c *CachedResolver) Resolve(ctx context.Context, did domain.DID) (Document, error) {
	raw, err := c.rdb.Get(ctx, docKey(did)).Result()
	if err == nil {
		var cd cachedDocument
		if jerr := json.Unmarshal([]byte(raw), &cd); jerr == nil {
			if key, kerr := base64.StdEncoding.DecodeString(cd.PublicKey); kerr == nil {
				return Document{DID: cd.DID, Kind: cd.Kind, Name: cd.Name, PublicKey: key, CreatedAt: cd.CreatedAt}, nil
			}
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return Document{}, ctx.Err()
	}

	doc, err := c.inner.Resolve(ctx, did)
	if err != nil {
		return Document{}, err
	}
	cd := cachedDocument{
		DID:       doc.DID,
		Kind:      doc.Kind,
		Name:      doc.Name,
		PublicKey: base64.StdEncoding.EncodeToString(doc.PublicKey),
		CreatedAt: doc.CreatedAt,
	}
	if data, jerr := json.Marshal(cd); jerr == nil {
		c.rdb.Set(ctx, docKey(did), data, documentTTL)
	}
	return doc, nil
}

func (c *CachedResolver) VerifySignature(ctx context.Context, did domain.DID, message, sig []byte) (bool, error) {
	doc, err := c.Resolve(ctx, did)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(doc.PublicKey, message, sig), nil
}

func docKey(did domain.DID) string { return "identity:doc:" + string(did) }
