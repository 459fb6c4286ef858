// Package access decides record reads. The gate is a single pass per
// attempt: authenticate, authorize against consent, re-verify content
// integrity, then notarize and append the audit entry. Denials are
// surfaced as coded errors so callers can always tell "no consent" from
// "tampered record".
package access

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medblock/internal/audit"
	"medblock/internal/consent"
	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/metrics"
	"medblock/internal/records"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/sentinel"
)

// Request is one access attempt. IP and UserAgent are carried into the
// audit entry when the attempt is allowed.
type Request struct {
	AccessorDID domain.DID
	RecordID    domain.RecordID
	Action      domain.Action
	IP          string
	UserAgent   string
}

// Result is an allowed access. ConsentRef is nil for self access.
// AuditRef is empty when the audit-path ledger was down and the read was
// served fail-open.
type Result struct {
	Record       records.Record
	HashVerified bool
	ConsentRef   *domain.ConsentID
	AuditRef     ledger.Ref
}

// Gate runs the access decision pipeline.
type Gate struct {
	records  *records.Service
	consents *consent.Service
	audits   *audit.Service
	chain    ledger.Client
	resolver identity.Resolver
	hasher   *hashing.Hasher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

func NewGate(
	recordsSvc *records.Service,
	consents *consent.Service,
	audits *audit.Service,
	chain ledger.Client,
	resolver identity.Resolver,
	hasher *hashing.Hasher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Gate {
	return &Gate{
		records:  recordsSvc,
		consents: consents,
		audits:   audits,
		chain:    chain,
		resolver: resolver,
		hasher:   hasher,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("medblock/access"),
		now:      time.Now,
	}
}

// Access runs one decision pass. Order is fixed: identity, consent,
// integrity, then the audit write. Denied attempts write no audit entry;
// they are reported through logs and metrics only, keeping the stored
// trail a record of data that actually left the system.
func (g *Gate) Access(ctx context.Context, req Request) (Result, error) {
	ctx, span := g.tracer.Start(ctx, "access.Gate",
		trace.WithAttributes(
			attribute.String("record.id", req.RecordID.String()),
			attribute.String("access.action", string(req.Action)),
		))
	defer span.End()

	if _, err := g.resolver.Resolve(ctx, req.AccessorDID); err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve accessor")
		}
		g.metrics.RecordAccessDecision(metrics.OutcomeUnauthenticated)
		span.SetAttributes(attribute.String("access.outcome", metrics.OutcomeUnauthenticated))
		return Result{}, dErrors.Newf(dErrors.CodeUnauthorized, "accessor %s is not registered", req.AccessorDID)
	}

	record, err := g.records.Get(ctx, req.RecordID)
	if err != nil {
		return Result{}, err
	}

	now := g.now().UTC()
	auth, err := g.consents.Authorize(ctx, req.AccessorDID, record.SubjectDID, record.ResourceType, now)
	if err != nil {
		return Result{}, err
	}
	if auth == nil {
		g.metrics.RecordAccessDecision(metrics.OutcomeNoConsent)
		span.SetAttributes(attribute.String("access.outcome", metrics.OutcomeNoConsent))
		g.logger.InfoContext(ctx, "access denied: no consent",
			"accessor_did", req.AccessorDID,
			"subject_did", record.SubjectDID,
			"record_id", record.ID,
			"resource_type", record.ResourceType)
		return Result{}, dErrors.Newf(dErrors.CodeNoConsent, "no active consent covers %s", record.ResourceType)
	}

	verified, err := g.hasher.Verify(record.Payload, record.ContentHash)
	if err != nil {
		return Result{}, err
	}
	if !verified {
		g.metrics.RecordAccessDecision(metrics.OutcomeIntegrity)
		span.SetAttributes(attribute.String("access.outcome", metrics.OutcomeIntegrity))
		g.logger.ErrorContext(ctx, "access denied: integrity violation",
			"accessor_did", req.AccessorDID,
			"subject_did", record.SubjectDID,
			"record_id", record.ID,
			"stored_hash", record.ContentHash)
		return Result{}, dErrors.Newf(dErrors.CodeIntegrityViolation,
			"record %s failed content hash verification", record.ID)
	}

	// A cancelled attempt must leave no trace in the audit trail.
	if err := ctx.Err(); err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeTimeout, "access attempt cancelled")
	}

	result := Result{Record: record, HashVerified: true}
	if !auth.SelfAccess {
		ref := auth.Grant.ID
		result.ConsentRef = &ref
	}
	result.AuditRef = g.writeAuditEntry(ctx, req, record, result.ConsentRef, now)

	g.metrics.RecordAccessDecision(metrics.OutcomeAllowed)
	span.SetAttributes(attribute.String("access.outcome", metrics.OutcomeAllowed))
	return result, nil
}

// writeAuditEntry notarizes the access tuple and appends the entry. The
// audit path is fail-open: a ledger or store failure never blocks the
// read, it only raises the observability signal.
func (g *Gate) writeAuditEntry(ctx context.Context, req Request, record records.Record, consentRef *domain.ConsentID, decidedAt time.Time) ledger.Ref {
	digest, err := g.hasher.Digest(map[string]any{
		"accessorDID":  req.AccessorDID,
		"patientDID":   record.SubjectDID,
		"resourceType": string(record.ResourceType),
		"resourceId":   record.ID,
		"action":       string(req.Action),
	})
	if err != nil {
		g.metrics.RecordLedgerFailure(metrics.PathAudit)
		g.logger.ErrorContext(ctx, "audit tuple digest failed", "record_id", record.ID, "error", err)
		return ""
	}

	ref, err := g.chain.Notarize(ctx, digest, map[string]string{
		ledger.MetaKind:        ledger.KindAccess,
		ledger.MetaAccessorDID: req.AccessorDID.String(),
		ledger.MetaPatientDID:  record.SubjectDID.String(),
		ledger.MetaRecordType:  string(record.ResourceType),
		ledger.MetaResourceID:  record.ID.String(),
		ledger.MetaAction:      string(req.Action),
	})
	if err != nil {
		g.metrics.RecordLedgerFailure(metrics.PathAudit)
		g.logger.ErrorContext(ctx, "audit notarization failed, access served without audit entry",
			"accessor_did", req.AccessorDID,
			"record_id", record.ID,
			"error", err)
		return ""
	}

	entry := audit.Entry{
		ID:           domain.NewEntryID(),
		AccessorDID:  req.AccessorDID,
		SubjectDID:   record.SubjectDID,
		ResourceType: record.ResourceType,
		ResourceID:   record.ID,
		Action:       req.Action,
		ConsentRef:   consentRef,
		DecidedAt:    decidedAt,
		LedgerRef:    ref,
		IP:           req.IP,
		UserAgent:    req.UserAgent,
	}
	if err := g.audits.Append(ctx, entry); err != nil {
		g.metrics.RecordLedgerFailure(metrics.PathAudit)
		g.logger.ErrorContext(ctx, "audit append failed, access served without audit entry",
			"accessor_did", req.AccessorDID,
			"record_id", record.ID,
			"error", err)
		return ""
	}
	return ref
}
