package records

import (
	"context"

	"medblock/pkg/domain"
)

// Store persists records. Save enforces the unique content hash: a second
// record with the same ContentHash fails with sentinel.ErrConflict.
// Stored records are never updated or deleted.
type Store interface {
	Save(ctx context.Context, record Record) error
	FindByID(ctx context.Context, id domain.RecordID) (Record, error)
	ListBySubject(ctx context.Context, subject domain.DID) ([]Record, error)
}
