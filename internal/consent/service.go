package consent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/metrics"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/sentinel"
)

// DefaultTTL applies when a grant request carries no explicit duration.
const DefaultTTL = 30 * 24 * time.Hour

// GrantRequest is the service-level input for creating a grant.
type GrantRequest struct {
	SubjectDID domain.DID
	GranteeDID domain.DID
	Scope      Scope
	TTL        time.Duration
}

// Authorization is the outcome of a consent check. SelfAccess marks the
// case where no grant is involved because the accessor is the subject.
type Authorization struct {
	SelfAccess bool
	Grant      Grant
}

// Service owns the grant lifecycle: create pending, notarize, activate,
// revoke. It persists before notarizing, so a ledger outage never loses
// the grant; the grant just stays pending until retried.
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

// Grant creates a consent grant from subject to grantee. Both parties
// must resolve; a subject granting to itself is rejected since self
// access never needs consent. The grant is saved pending first, then
// notarized and activated. On notarization failure the pending grant is
// kept and a ledger_unavailable error is returned; RetryNotarization
// completes it later.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (Grant, error) {
	if req.SubjectDID == req.GranteeDID {
		return Grant{}, dErrors.New(dErrors.CodeBadRequest, "subject cannot grant consent to itself")
	}
	if !req.Scope.All && len(req.Scope.Types) == 0 {
		return Grant{}, dErrors.New(dErrors.CodeBadRequest, "scope must not be empty")
	}
	if _, err := s.resolver.Resolve(ctx, req.SubjectDID); err != nil {
		return Grant{}, resolveErr(err, "subject", req.SubjectDID)
	}
	if _, err := s.resolver.Resolve(ctx, req.GranteeDID); err != nil {
		return Grant{}, resolveErr(err, "grantee", req.GranteeDID)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now().UTC()
	grant := Grant{
		ID:         domain.NewConsentID(),
		SubjectDID: req.SubjectDID,
		GranteeDID: req.GranteeDID,
		Status:     StatusPending,
		Scope:      req.Scope,
		GrantedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.store.Save(ctx, grant); err != nil {
		return Grant{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist consent grant")
	}

	return s.notarize(ctx, grant)
}

// RetryNotarization completes a grant left pending by a ledger outage.
// Non-pending grants come back unchanged.
func (s *Service) RetryNotarization(ctx context.Context, id domain.ConsentID) (Grant, error) {
	grant, err := s.Get(ctx, id)
	if err != nil {
		return Grant{}, err
	}
	if grant.Status != StatusPending {
		return grant, nil
	}
	return s.notarize(ctx, grant)
}

func (s *Service) notarize(ctx context.Context, grant Grant) (Grant, error) {
	digest, err := s.hasher.Digest(map[string]any{
		"consentId":  grant.ID,
		"subjectDID": grant.SubjectDID,
		"granteeDID": grant.GranteeDID,
		"scope":      grant.Scope.Values(),
		"grantedAt":  grant.GrantedAt,
		"expiresAt":  grant.ExpiresAt,
	})
	if err != nil {
		return Grant{}, err
	}

	ref, err := s.chain.Notarize(ctx, digest, map[string]string{
		ledger.MetaKind:         ledger.KindConsent,
		ledger.MetaPatientDID:   grant.SubjectDID.String(),
		ledger.MetaProviderDID:  grant.GranteeDID.String(),
		ledger.MetaConsentScope: strings.Join(grant.Scope.Values(), ","),
		ledger.MetaExpiresAt:    grant.ExpiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.metrics.RecordLedgerFailure(metrics.PathConsent)
		s.logger.Warn("consent notarization failed, grant stays pending",
			"consent_id", grant.ID, "error", err)
		return grant, dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "notarize consent grant")
	}

	grant.Status = StatusActive
	grant.LedgerRef = ref
	if err := s.store.Save(ctx, grant); err != nil {
		return Grant{}, dErrors.Wrap(err, dErrors.CodeInternal, "activate consent grant")
	}
	s.logger.Info("consent granted",
		"consent_id", grant.ID,
		"subject_did", grant.SubjectDID,
		"grantee_did", grant.GranteeDID,
		"ledger_ref", ref)
	return grant, nil
}

// Revoke withdraws a grant. Only the subject may revoke; revoking a
// grant that is already revoked or expired succeeds without change.
func (s *Service) Revoke(ctx context.Context, requester domain.DID, id domain.ConsentID) (Grant, error) {
	grant, err := s.Get(ctx, id)
	if err != nil {
		return Grant{}, err
	}
	if grant.SubjectDID != requester {
		return Grant{}, dErrors.New(dErrors.CodeForbidden, "only the subject may revoke a consent grant")
	}

	revoked, err := s.store.Revoke(ctx, id, s.now().UTC())
	if err != nil {
		return Grant{}, dErrors.Wrap(err, dErrors.CodeInternal, "revoke consent grant")
	}
	if revoked.Status == StatusRevoked && grant.Status != StatusRevoked {
		s.logger.Info("consent revoked", "consent_id", id, "subject_did", requester)
	}
	return revoked, nil
}

// Authorize decides whether accessor may read subject's records of the
// given type at now. Self access is always allowed and involves no
// grant. Absence of consent is not an error here; the caller turns the
// nil authorization into its own denial.
func (s *Service) Authorize(ctx context.Context, accessor, subject domain.DID, resourceType domain.ResourceType, now time.Time) (*Authorization, error) {
	if accessor == subject {
		return &Authorization{SelfAccess: true}, nil
	}

	grant, err := s.store.FindActive(ctx, subject, accessor, resourceType, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up active consent")
	}
	return &Authorization{Grant: grant}, nil
}

func (s *Service) Get(ctx context.Context, id domain.ConsentID) (Grant, error) {
	grant, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Grant{}, dErrors.Newf(dErrors.CodeNotFound, "consent grant %s not found", id)
		}
		return Grant{}, dErrors.Wrap(err, dErrors.CodeInternal, "load consent grant")
	}
	return grant, nil
}

// ListActive returns the party's grants that are active at now, as
// subject or as grantee.
func (s *Service) ListActive(ctx context.Context, party domain.DID, asSubject bool, now time.Time) ([]Grant, error) {
	var (
		grants []Grant
		err    error
	)
	if asSubject {
		grants, err = s.store.ListBySubject(ctx, party)
	} else {
		grants, err = s.store.ListByGrantee(ctx, party)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list consent grants")
	}

	active := grants[:0]
	for _, g := range grants {
		if g.IsActive(now) {
			active = append(active, g)
		}
	}
	return active, nil
}

func resolveErr(err error, role string, did domain.DID) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s %s is not registered", role, did)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "resolve "+role)
}
