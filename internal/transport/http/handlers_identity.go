package httptransport

import (
	"errors"
	"net/http"

	"medblock/internal/identity"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/httputil"
	"medblock/pkg/platform/sentinel"
	"medblock/pkg/requestcontext"
)

func (h *Handler) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, identity.KindPatient)
}

func (h *Handler) handleRegisterPractitioner(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, identity.KindPractitioner)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, kind identity.Kind) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.identities.Register(ctx, kind, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "register party"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, registrationResponse{
		DID:        reg.DID,
		Kind:       reg.Kind,
		Name:       reg.Name,
		PublicKey:  reg.PublicKey,
		PrivateKey: reg.PrivateKey,
	})
}

func (h *Handler) handleChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ChallengeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	// Only registered DIDs get challenges; an attacker probing for DIDs
	// learns nothing beyond what resolve already exposes.
	if _, err := h.identities.Resolve(ctx, req.parsedDID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "did %s is not registered", req.parsedDID))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "resolve did"))
		return
	}

	token, err := h.challenges.Issue(req.parsedDID)
	if err != nil {
		h.logger.ErrorContext(ctx, "challenge issue failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "issue challenge"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"challenge": token})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	did, err := domain.ParseDID(r.URL.Query().Get("did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.identities.Resolve(ctx, did)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "did %s is not registered", did))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "resolve did"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, doc)
}
