package records

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/metrics"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/sentinel"
)

// CreateRequest carries the business payload plus ownership. The payload
// is exactly the hashed material; ids and timestamps stay out of it.
type CreateRequest struct {
	SubjectDID   domain.DID
	AuthorDID    domain.DID
	ResourceType domain.ResourceType
	Payload      map[string]any
}

// Service creates and serves records. Creation is hash-then-notarize-
// then-persist: a record only ever exists with its ContentHash and
// LedgerRef resolved, so there is no pending state to reconcile.
type Service struct {
	store    Store
	chain    ledger.Client
	resolver identity.Resolver
	hasher   *hashing.Hasher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(store Store, chain ledger.Client, resolver identity.Resolver, hasher *hashing.Hasher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		chain:    chain,
		resolver: resolver,
		hasher:   hasher,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Notarize hashes the payload, anchors the digest on the ledger and
// persists the record. A duplicate payload (same digest) is a conflict;
// a ledger outage fails the whole create, since a record without a
// ledger reference would be an unverifiable proof.
func (s *Service) Notarize(ctx context.Context, req CreateRequest) (Record, error) {
	if len(req.Payload) == 0 {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "record payload must not be empty")
	}
	if _, err := s.resolver.Resolve(ctx, req.SubjectDID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Record{}, dErrors.Newf(dErrors.CodeNotFound, "subject %s is not registered", req.SubjectDID)
		}
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve subject")
	}
	if req.AuthorDID != "" {
		if _, err := s.resolver.Resolve(ctx, req.AuthorDID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return Record{}, dErrors.Newf(dErrors.CodeNotFound, "author %s is not registered", req.AuthorDID)
			}
			return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve author")
		}
	}

	digest, err := s.hasher.Digest(req.Payload)
	if err != nil {
		return Record{}, err
	}

	ref, err := s.chain.Notarize(ctx, digest, map[string]string{
		ledger.MetaKind:        ledger.KindRecord,
		ledger.MetaRecordHash:  digest,
		ledger.MetaRecordType:  string(req.ResourceType),
		ledger.MetaPatientDID:  req.SubjectDID.String(),
		ledger.MetaProviderDID: req.AuthorDID.String(),
	})
	if err != nil {
		s.metrics.RecordLedgerFailure(metrics.PathRecord)
		return Record{}, dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "notarize record")
	}

	record := Record{
		ID:           domain.NewRecordID(),
		SubjectDID:   req.SubjectDID,
		AuthorDID:    req.AuthorDID,
		ResourceType: req.ResourceType,
		Payload:      req.Payload,
		ContentHash:  digest,
		LedgerRef:    ref,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Save(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Record{}, dErrors.Wrap(err, dErrors.CodeConflict, "identical record already notarized")
		}
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist record")
	}

	s.logger.Info("record notarized",
		"record_id", record.ID,
		"resource_type", record.ResourceType,
		"subject_did", record.SubjectDID,
		"ledger_ref", ref)
	return record, nil
}

// Get returns the stored record without any authorization decision; read
// paths go through the access gate, which calls this.
func (s *Service) Get(ctx context.Context, id domain.RecordID) (Record, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Record{}, dErrors.Newf(dErrors.CodeNotFound, "record %s not found", id)
		}
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "load record")
	}
	return record, nil
}

// ListBySubject returns payload-free summaries of a subject's records,
// newest first.
func (s *Service) ListBySubject(ctx context.Context, subject domain.DID) ([]Summary, error) {
	stored, err := s.store.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list records")
	}
	out := make([]Summary, len(stored))
	for i, r := range stored {
		out[i] = Summarize(r)
	}
	return out, nil
}
