// Package ledger provides the notarization oracle the core writes hashes
// and access tuples to. Callers treat it as opaque and append-only: they
// hand over a digest plus metadata, get back a reference, and can later
// ask whether that reference exists and what metadata it carried. Nothing
// outside this package depends on how references are produced, so a real
// chain client can replace the local hash-chain backends without touching
// the consent or access logic.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Ref is an opaque ledger reference. For the local backends it is the hex
// form of the entry's chain hash.
type Ref string

func (r Ref) String() string { return string(r) }

// Entry is one notarized item. PrevRef links entries into a tamper-evident
// chain: recomputing the chain hash of any entry detects alteration of it
// or of anything before it.
type Entry struct {
	Index       uint64            `json:"index"`
	Ref         Ref               `json:"ref"`
	PrevRef     Ref               `json:"prev_ref"`
	Digest      string            `json:"digest"`
	Metadata    map[string]string `json:"metadata"`
	NotarizedAt time.Time         `json:"notarized_at"`
}

// Client is the notarization oracle interface consumed by the core.
//
// Notarize appends digest+metadata and returns the new reference; it fails
// with sentinel.ErrUnavailable (wrapped) when the backend is unreachable.
// Confirmed reports whether a reference exists; unknown references are a
// plain false, not an error. Metadata returns the metadata a reference
// carried, or sentinel.ErrNotFound.
type Client interface {
	Notarize(ctx context.Context, digest string, metadata map[string]string) (Ref, error)
	Confirmed(ctx context.Context, ref Ref) (bool, error)
	Metadata(ctx context.Context, ref Ref) (map[string]string, error)
}

// Common metadata keys written by the services. Kept as constants so the
// record, consent and audit paths agree on the wire form.
const (
	MetaKind         = "kind"
	MetaRecordHash   = "recordHash"
	MetaRecordType   = "recordType"
	MetaPatientDID   = "patientDID"
	MetaProviderDID  = "providerDID"
	MetaAccessorDID  = "accessorDID"
	MetaResourceID   = "resourceId"
	MetaAction       = "action"
	MetaConsentScope = "scope"
	MetaExpiresAt    = "expiresAt"

	KindRecord  = "record"
	KindConsent = "consent"
	KindAccess  = "access"
)

// chainRef computes the chain hash for an entry. Fields join in a fixed
// order with metadata keys sorted, so the reference is reproducible from
// the stored entry alone.
func chainRef(prev Ref, index uint64, digest string, metadata map[string]string, at time.Time) Ref {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(prev))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatUint(index, 10))
	b.WriteByte('\n')
	b.WriteString(digest)
	b.WriteByte('\n')
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(metadata[k])
		b.WriteByte('\n')
	}
	b.WriteString(at.UTC().Format(time.RFC3339Nano))

	sum := sha256.Sum256([]byte(b.String()))
	return Ref(hex.EncodeToString(sum[:]))
}

// genesisRef anchors the first entry of a chain.
const genesisRef = Ref("0000000000000000000000000000000000000000000000000000000000000000")

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
