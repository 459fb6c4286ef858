package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"medblock/internal/consent"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/httputil"
	"medblock/pkg/requestcontext"
)

func (h *Handler) handleGrantConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	subject := requestcontext.AccessorDID(ctx)

	req, ok := httputil.DecodeAndPrepare[GrantConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	grant, err := h.consents.Grant(ctx, consent.GrantRequest{
		SubjectDID: subject,
		GranteeDID: req.parsedGrantee,
		Scope:      req.parsedScope,
		TTL:        req.TTL(),
	})
	if err != nil {
		// A pending grant survives a ledger outage; return it alongside
		// the error code so the caller can retry notarization.
		if dErrors.HasCode(err, dErrors.CodeLedgerUnavailable) && !grant.ID.IsNil() {
			httputil.WriteJSON(w, http.StatusAccepted, grant)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.metrics.ConsentsGranted.Inc()
	httputil.WriteJSON(w, http.StatusCreated, grant)
}

func (h *Handler) handleRevokeConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requestcontext.AccessorDID(ctx)

	id, err := domain.ParseConsentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grant, err := h.consents.Revoke(ctx, requester, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if grant.Status == consent.StatusRevoked {
		h.metrics.ConsentsRevoked.Inc()
	}
	httputil.WriteJSON(w, http.StatusOK, grant)
}

// handleRetryConsent re-attempts notarization of a grant left pending by
// a ledger outage. Only the subject may drive its grant's lifecycle.
func (h *Handler) handleRetryConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requestcontext.AccessorDID(ctx)

	id, err := domain.ParseConsentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	existing, err := h.consents.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if existing.SubjectDID != requester {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only the subject may retry notarization"))
		return
	}

	grant, err := h.consents.RetryNotarization(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if existing.Status == consent.StatusPending && grant.Status == consent.StatusActive {
		h.metrics.ConsentsGranted.Inc()
	}
	httputil.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) handleListConsents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	party := requestcontext.AccessorDID(ctx)

	asSubject := true
	switch role := r.URL.Query().Get("role"); role {
	case "", "subject":
	case "grantee":
		asSubject = false
	default:
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown role %q", role))
		return
	}

	grants, err := h.consents.ListActive(ctx, party, asSubject, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"consents": grants})
}
