// Package identity establishes who a requester is. The resolver maps a
// DID to its public key material and checks signatures against it; it is
// the only component that ever inspects keys. Possession of a DID string,
// or its presence in any cache, proves nothing; authenticity always
// comes from a signature verifying against resolved key material.
package identity

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// Kind distinguishes the two registered party types.
type Kind string

const (
	KindPatient      Kind = "patient"
	KindPractitioner Kind = "practitioner"
)

// Document is the resolved view of a DID: public material only.
type Document struct {
	DID       domain.DID        `json:"did"`
	Kind      Kind              `json:"kind"`
	Name      string            `json:"name"`
	PublicKey ed25519.PublicKey `json:"public_key"`
	CreatedAt time.Time         `json:"created_at"`
}

// Registration is returned exactly once, at creation. The private key is
// never stored server-side; a lost key is unrecoverable.
type Registration struct {
	Document
	PrivateKey ed25519.PrivateKey
}

// Resolver is the identity collaborator the core consumes.
//
// Resolve returns sentinel.ErrNotFound for unknown DIDs. VerifySignature
// reports whether sig is a valid signature of message under the DID's
// key; an unknown DID is a plain false.
type Resolver interface {
	Resolve(ctx context.Context, did domain.DID) (Document, error)
	VerifySignature(ctx context.Context, did domain.DID, message, sig []byte) (bool, error)
}

// Directory is an in-process resolver that also registers parties. It
// stands in for a DID network; the Resolver interface keeps the core
// unaware of the difference.
type Directory struct {
	mu     sync.RWMutex
	method string
	docs   map[domain.DID]Document
	now    func() time.Time
}

func NewDirectory(method string) *Directory {
	if method == "" {
		method = "med"
	}
	return &Directory{method: method, docs: make(map[domain.DID]Document), now: time.Now}
}

// Register mints a DID with a fresh ed25519 keypair. The suffix derives
// from a random UUID, matching the opaque shape of network DIDs.
func (d *Directory) Register(_ context.Context, kind Kind, name string) (Registration, error) {
	if kind != KindPatient && kind != KindPractitioner {
		return Registration{}, fmt.Errorf("%w: unknown party kind %q", sentinel.ErrInvalidState, kind)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Registration{}, fmt.Errorf("generate keypair: %w", err)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	doc := Document{
		DID:       domain.DID(fmt.Sprintf("did:%s:%s", d.method, suffix)),
		Kind:      kind,
		Name:      name,
		PublicKey: pub,
		CreatedAt: d.now().UTC(),
	}

	d.mu.Lock()
	d.docs[doc.DID] = doc
	d.mu.Unlock()

	return Registration{Document: doc, PrivateKey: priv}, nil
}

func (d *Directory) Resolve(_ context.Context, did domain.DID) (Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.docs[did]
	if !ok {
		return Document{}, sentinel.ErrNotFound
	}
	return doc, nil
}

func (d *Directory) VerifySignature(ctx context.Context, did domain.DID, message, sig []byte) (bool, error) {
	doc, err := d.Resolve(ctx, did)
	if err != nil {
		if err == sentinel.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(doc.PublicKey, message, sig), nil
}
