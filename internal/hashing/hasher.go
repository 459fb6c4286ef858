// Package hashing computes deterministic content digests of a record's
// business fields. The digest is the value notarized on the ledger, so the
// serialized form must be reproducible across implementations: keys are
// sorted, separators are compact, and every leaf is normalized to a single
// canonical textual form before serialization.
package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"

	dErrors "medblock/pkg/domain-errors"
)

// Algorithm selects the digest function. The supported set is fixed by
// policy; anything else is a configuration error.
type Algorithm string

const (
	SHA256 Algorithm = "SHA256" // 64 hex chars
	SHA512 Algorithm = "SHA512" // 128 hex chars
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA256

type Hasher struct {
	algorithm Algorithm
}

// New returns a Hasher for the given algorithm, or an
// unsupported_algorithm error for anything outside the supported set.
func New(algorithm Algorithm) (*Hasher, error) {
	switch algorithm {
	case SHA256, SHA512:
		return &Hasher{algorithm: algorithm}, nil
	case "":
		return &Hasher{algorithm: DefaultAlgorithm}, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeUnsupportedAlgorithm, "unsupported hash algorithm %q", algorithm)
	}
}

// Algorithm reports the configured algorithm.
func (h *Hasher) Algorithm() Algorithm { return h.algorithm }

// Digest serializes payload canonically and returns the hex digest.
// Semantically identical payloads produce identical digests regardless of
// field insertion order. Payloads containing a non-normalizable leaf fail
// with a serialization_error.
func (h *Hasher) Digest(payload map[string]any) (string, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return "", err
	}
	var sum hash.Hash
	switch h.algorithm {
	case SHA512:
		sum = sha512.New()
	default:
		sum = sha256.New()
	}
	sum.Write(canonical)
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// Verify reports whether payload hashes to expected. A mismatch is a
// plain false, never an error; only malformed input errors.
func (h *Hasher) Verify(payload map[string]any, expected string) (bool, error) {
	actual, err := h.Digest(payload)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}
