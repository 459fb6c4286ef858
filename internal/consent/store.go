package consent

import (
	"context"
	"time"

	"medblock/pkg/domain"
)

// Store persists grants. Implementations must make Revoke atomic with
// respect to FindActive: once Revoke returns, no FindActive call may
// observe the grant as active. FindActive resolves ties between multiple
// matching active grants by the most recent GrantedAt.
type Store interface {
	Save(ctx context.Context, grant Grant) error
	FindByID(ctx context.Context, id domain.ConsentID) (Grant, error)

	// Revoke marks the grant revoked and returns the post-state.
	// Revoking an already-revoked or already-expired grant is a no-op
	// success returning the stored state unchanged.
	Revoke(ctx context.Context, id domain.ConsentID, revokedAt time.Time) (Grant, error)

	// FindActive returns the most recently granted active grant from
	// subject to grantee whose scope covers resourceType, or
	// sentinel.ErrNotFound.
	FindActive(ctx context.Context, subject, grantee domain.DID, resourceType domain.ResourceType, now time.Time) (Grant, error)

	ListBySubject(ctx context.Context, subject domain.DID) ([]Grant, error)
	ListByGrantee(ctx context.Context, grantee domain.DID) ([]Grant, error)
}
