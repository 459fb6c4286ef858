package audit

import (
	"context"

	"medblock/pkg/domain"
)

// DefaultLimit bounds query results when the caller passes limit <= 0.
const DefaultLimit = 100

// Store persists entries. Append is the only write; ledger_ref is unique
// so the same notarization can never back two entries. List queries
// return newest first, never more than limit rows.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListBySubject(ctx context.Context, subject domain.DID, limit int) ([]Entry, error)
	ListByAccessor(ctx context.Context, accessor domain.DID, limit int) ([]Entry, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
