package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	"medblock/pkg/platform/sentinel"
)

// PostgresStore persists records in the records table. The unique index
// on content_hash is the authoritative duplicate guard; violations map to
// sentinel.ErrConflict. There are no UPDATE or DELETE statements in this
// file on purpose.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const Schema = `
CREATE TABLE IF NOT EXISTS records (
	id            UUID PRIMARY KEY,
	subject_did   TEXT NOT NULL,
	author_did    TEXT NOT NULL DEFAULT '',
	resource_type TEXT NOT NULL,
	payload       JSONB NOT NULL,
	content_hash  TEXT NOT NULL UNIQUE,
	ledger_ref    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS records_subject_idx ON records (subject_did, created_at DESC);
`

const recordColumns = "id, subject_did, author_did, resource_type, payload, content_hash, ledger_ref, created_at"

func (s *PostgresStore) Save(ctx context.Context, record Record) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("encode record payload: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(record.ID),
		string(record.SubjectDID),
		string(record.AuthorDID),
		string(record.ResourceType),
		payload,
		record.ContentHash,
		string(record.LedgerRef),
		record.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", sentinel.ErrConflict, pgErr.ConstraintName)
	}
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.RecordID) (Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+` FROM records WHERE id = $1
	`, uuid.UUID(id))
	return scanRecord(row)
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject domain.DID) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+` FROM records
		WHERE subject_did = $1 ORDER BY created_at DESC
	`, string(subject))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		id           uuid.UUID
		subject      string
		author       string
		resourceType string
		payload      []byte
		contentHash  string
		ledgerRef    string
		createdAt    time.Time
	)
	err := row.Scan(&id, &subject, &author, &resourceType, &payload, &contentHash, &ledgerRef, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Record{}, fmt.Errorf("decode payload of record %s: %w", id, err)
	}
	return Record{
		ID:           domain.RecordID(id),
		SubjectDID:   domain.DID(subject),
		AuthorDID:    domain.DID(author),
		ResourceType: domain.ResourceType(resourceType),
		Payload:      fields,
		ContentHash:  contentHash,
		LedgerRef:    ledger.Ref(ledgerRef),
		CreatedAt:    createdAt,
	}, nil
}
