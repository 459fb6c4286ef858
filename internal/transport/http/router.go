// Package httptransport is the thin HTTP layer. Handlers decode, call a
// domain service, encode; every business rule lives below this package.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medblock/internal/access"
	"medblock/internal/audit"
	"medblock/internal/consent"
	"medblock/internal/identity"
	"medblock/internal/platform/metrics"
	"medblock/internal/platform/middleware"
	"medblock/internal/records"
	"medblock/pkg/domain"
)

// AccessGate decides and audits record reads.
type AccessGate interface {
	Access(ctx context.Context, req access.Request) (access.Result, error)
}

// RecordService creates and lists records.
type RecordService interface {
	Notarize(ctx context.Context, req records.CreateRequest) (records.Record, error)
	ListBySubject(ctx context.Context, subject domain.DID) ([]records.Summary, error)
}

// ConsentService owns the grant lifecycle.
type ConsentService interface {
	Grant(ctx context.Context, req consent.GrantRequest) (consent.Grant, error)
	Get(ctx context.Context, id domain.ConsentID) (consent.Grant, error)
	Revoke(ctx context.Context, requester domain.DID, id domain.ConsentID) (consent.Grant, error)
	RetryNotarization(ctx context.Context, id domain.ConsentID) (consent.Grant, error)
	ListActive(ctx context.Context, party domain.DID, asSubject bool, now time.Time) ([]consent.Grant, error)
}

// AuditService queries the access trail.
type AuditService interface {
	ForSubject(ctx context.Context, subject domain.DID, limit int) ([]audit.Entry, error)
	ForAccessor(ctx context.Context, accessor domain.DID, limit int) ([]audit.Entry, error)
}

// IdentityService registers and resolves parties.
type IdentityService interface {
	Register(ctx context.Context, kind identity.Kind, name string) (identity.Registration, error)
	Resolve(ctx context.Context, did domain.DID) (identity.Document, error)
}

// ChallengeIssuer mints authentication challenges.
type ChallengeIssuer interface {
	Issue(did domain.DID) (string, error)
}

// Handler wires all endpoints to the domain services.
type Handler struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	gate       AccessGate
	records    RecordService
	consents   ConsentService
	audits     AuditService
	identities IdentityService
	challenges ChallengeIssuer

	auth func(http.Handler) http.Handler
}

func NewHandler(
	logger *slog.Logger,
	m *metrics.Metrics,
	gate AccessGate,
	recordSvc RecordService,
	consentSvc ConsentService,
	auditSvc AuditService,
	identitySvc IdentityService,
	challenges *identity.ChallengeService,
	resolver identity.Resolver,
) *Handler {
	return &Handler{
		logger:     logger,
		metrics:    m,
		gate:       gate,
		records:    recordSvc,
		consents:   consentSvc,
		audits:     auditSvc,
		identities: identitySvc,
		challenges: challenges,
		auth:       identity.RequireDIDAuth(challenges, resolver, logger),
	}
}

// Router builds the full route tree with the shared middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Latency(h.metrics))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/identity/patients", h.handleRegisterPatient)
	r.Post("/identity/practitioners", h.handleRegisterPractitioner)
	r.Post("/identity/challenge", h.handleChallenge)
	r.Get("/identity/resolve", h.handleResolve)

	r.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/records", h.handleCreateRecord)
		r.Get("/records", h.handleListRecords)
		r.Get("/records/{id}", h.handleAccessRecord)

		r.Post("/consents", h.handleGrantConsent)
		r.Post("/consents/{id}/revoke", h.handleRevokeConsent)
		r.Post("/consents/{id}/retry", h.handleRetryConsent)
		r.Get("/consents", h.handleListConsents)

		r.Get("/audit/subject/{did}", h.handleAuditForSubject)
		r.Get("/audit/accessor/{did}", h.handleAuditForAccessor)
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
