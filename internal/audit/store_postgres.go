package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// PostgresStore appends entries to the access_log table. The unique
// constraint on ledger_ref backs the one-notarization-one-entry rule.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS access_log (
	id            UUID PRIMARY KEY,
	accessor_did  TEXT NOT NULL,
	subject_did   TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   UUID NOT NULL,
	action        TEXT NOT NULL,
	consent_ref   UUID,
	decided_at    TIMESTAMPTZ NOT NULL,
	ledger_ref    TEXT NOT NULL UNIQUE,
	ip            TEXT NOT NULL DEFAULT '',
	user_agent    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS access_log_subject_idx ON access_log (subject_did, decided_at DESC);
CREATE INDEX IF NOT EXISTS access_log_accessor_idx ON access_log (accessor_did, decided_at DESC);
`

const entryColumns = "id, accessor_did, subject_did, resource_type, resource_id, action, consent_ref, decided_at, ledger_ref, ip, user_agent"

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	var consentRef *uuid.UUID
	if entry.ConsentRef != nil {
		id := uuid.UUID(*entry.ConsentRef)
		consentRef = &id
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_log (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(entry.ID),
		string(entry.AccessorDID),
		string(entry.SubjectDID),
		string(entry.ResourceType),
		uuid.UUID(entry.ResourceID),
		string(entry.Action),
		consentRef,
		entry.DecidedAt,
		string(entry.LedgerRef),
		entry.IP,
		entry.UserAgent,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: ledger ref %s already recorded", sentinel.ErrConflict, entry.LedgerRef)
	}
	if err != nil {
		return fmt.Errorf("append access log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject domain.DID, limit int) ([]Entry, error) {
	return s.list(ctx, `
		SELECT `+entryColumns+` FROM access_log
		WHERE subject_did = $1 ORDER BY decided_at DESC LIMIT $2
	`, string(subject), normalizeLimit(limit))
}

func (s *PostgresStore) ListByAccessor(ctx context.Context, accessor domain.DID, limit int) ([]Entry, error) {
	return s.list(ctx, `
		SELECT `+entryColumns+` FROM access_log
		WHERE accessor_did = $1 ORDER BY decided_at DESC LIMIT $2
	`, string(accessor), normalizeLimit(limit))
}

func (s *PostgresStore) list(ctx context.Context, query string, party string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, party, limit)
	if err != nil {
		return nil, fmt.Errorf("list access log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id           uuid.UUID
			accessor     string
			subject      string
			resourceType string
			resourceID   uuid.UUID
			action       string
			consentRef   *uuid.UUID
			decidedAt    time.Time
			ledgerRef    string
			ip           string
			userAgent    string
		)
		if err := rows.Scan(&id, &accessor, &subject, &resourceType, &resourceID, &action, &consentRef, &decidedAt, &ledgerRef, &ip, &userAgent); err != nil {
			return nil, fmt.Errorf("scan access log entry: %w", err)
		}
		entry := Entry{
			ID:           domain.EntryID(id),
			AccessorDID:  domain.DID(accessor),
			SubjectDID:   domain.DID(subject),
			ResourceType: domain.ResourceType(resourceType),
			ResourceID:   domain.RecordID(resourceID),
			Action:       domain.Action(action),
			DecidedAt:    decidedAt,
			LedgerRef:    ledger.Ref(ledgerRef),
			IP:           ip,
			UserAgent:    userAgent,
		}
		if consentRef != nil {
			ref := domain.ConsentID(*consentRef)
			entry.ConsentRef = &ref
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
