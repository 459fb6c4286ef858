package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// PostgresStore persists grants in the consent_grants table. Revoke runs
// as SELECT ... FOR UPDATE + UPDATE in one transaction, so a completed
// revoke is visible to every subsequent FindActive under read-committed
// isolation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL the store expects; applied by migrations, kept here
// for reference and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS consent_grants (
	id          UUID PRIMARY KEY,
	subject_did TEXT NOT NULL,
	grantee_did TEXT NOT NULL,
	status      TEXT NOT NULL,
	scope       TEXT[] NOT NULL,
	granted_at  TIMESTAMPTZ NOT NULL,
	expires_at  TIMESTAMPTZ NOT NULL,
	revoked_at  TIMESTAMPTZ,
	ledger_ref  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS consent_grants_subject_idx ON consent_grants (subject_did, status);
CREATE INDEX IF NOT EXISTS consent_grants_grantee_idx ON consent_grants (grantee_did, status);
`

const grantColumns = "id, subject_did, grantee_did, status, scope, granted_at, expires_at, revoked_at, ledger_ref"

func (s *PostgresStore) Save(ctx context.Context, grant Grant) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO consent_grants (`+grantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			revoked_at = EXCLUDED.revoked_at,
			ledger_ref = EXCLUDED.ledger_ref
	`,
		uuid.UUID(grant.ID),
		string(grant.SubjectDID),
		string(grant.GranteeDID),
		string(grant.Status),
		grant.Scope.Values(),
		grant.GrantedAt,
		grant.ExpiresAt,
		grant.RevokedAt,
		string(grant.LedgerRef),
	)
	if err != nil {
		return fmt.Errorf("save consent grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ConsentID) (Grant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+grantColumns+` FROM consent_grants WHERE id = $1
	`, uuid.UUID(id))
	return scanGrant(row)
}

func (s *PostgresStore) Revoke(ctx context.Context, id domain.ConsentID, revokedAt time.Time) (Grant, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Grant{}, fmt.Errorf("begin revoke tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT `+grantColumns+` FROM consent_grants WHERE id = $1 FOR UPDATE
	`, uuid.UUID(id))
	grant, err := scanGrant(row)
	if err != nil {
		return Grant{}, err
	}

	// Idempotent terminal states: already revoked, or past expiry.
	if grant.RevokedAt != nil || grant.EffectiveStatus(revokedAt) == StatusExpired {
		return grant, tx.Commit(ctx)
	}

	at := revokedAt
	grant.Status = StatusRevoked
	grant.RevokedAt = &at
	if _, err := tx.Exec(ctx, `
		UPDATE consent_grants SET status = $2, revoked_at = $3 WHERE id = $1
	`, uuid.UUID(id), string(StatusRevoked), at); err != nil {
		return Grant{}, fmt.Errorf("revoke consent grant: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Grant{}, fmt.Errorf("commit revoke tx: %w", err)
	}
	return grant, nil
}

func (s *PostgresStore) FindActive(ctx context.Context, subject, grantee domain.DID, resourceType domain.ResourceType, now time.Time) (Grant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+grantColumns+` FROM consent_grants
		WHERE subject_did = $1 AND grantee_did = $2
		  AND status = 'active' AND revoked_at IS NULL AND expires_at > $3
		  AND ('all' = ANY(scope) OR $4 = ANY(scope))
		ORDER BY granted_at DESC
		LIMIT 1
	`, string(subject), string(grantee), now, string(resourceType))
	return scanGrant(row)
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject domain.DID) ([]Grant, error) {
	return s.list(ctx, `
		SELECT `+grantColumns+` FROM consent_grants
		WHERE subject_did = $1 ORDER BY granted_at DESC
	`, string(subject))
}

func (s *PostgresStore) ListByGrantee(ctx context.Context, grantee domain.DID) ([]Grant, error) {
	return s.list(ctx, `
		SELECT `+grantColumns+` FROM consent_grants
		WHERE grantee_did = $1 ORDER BY granted_at DESC
	`, string(grantee))
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list consent grants: %w", err)
	}
	defer rows.Close()

	var out []Grant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, grant)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(row rowScanner) (Grant, error) {
	var (
		id        uuid.UUID
		subject   string
		grantee   string
		status    string
		scope     []string
		grantedAt time.Time
		expiresAt time.Time
		revokedAt *time.Time
		ledgerRef string
	)
	err := row.Scan(&id, &subject, &grantee, &status, &scope, &grantedAt, &expiresAt, &revokedAt, &ledgerRef)
	if errors.Is(err, pgx.ErrNoRows) {
		return Grant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Grant{}, fmt.Errorf("scan consent grant: %w", err)
	}

	parsedScope, err := ParseScope(scope)
	if err != nil {
		return Grant{}, fmt.Errorf("corrupt scope on grant %s: %w", id, err)
	}
	return Grant{
		ID:         domain.ConsentID(id),
		SubjectDID: domain.DID(subject),
		GranteeDID: domain.DID(grantee),
		Status:     Status(status),
		Scope:      parsedScope,
		GrantedAt:  grantedAt,
		ExpiresAt:  expiresAt,
		RevokedAt:  revokedAt,
		LedgerRef:  ledger.Ref(ledgerRef),
	}, nil
}
