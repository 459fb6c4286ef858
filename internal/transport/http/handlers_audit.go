package httptransport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medblock/internal/audit"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/httputil"
	"medblock/pkg/requestcontext"
)

// maxAuditLimit caps a single audit query regardless of what the caller
// asks for.
const maxAuditLimit = 500

// handleAuditForSubject serves a subject's access trail. A party only
// ever sees its own trail; the trail itself is sensitive data.
func (h *Handler) handleAuditForSubject(w http.ResponseWriter, r *http.Request) {
	h.auditTrail(w, r, true)
}

func (h *Handler) handleAuditForAccessor(w http.ResponseWriter, r *http.Request) {
	h.auditTrail(w, r, false)
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request, forSubject bool) {
	ctx := r.Context()
	requester := requestcontext.AccessorDID(ctx)

	did, err := domain.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if did != requester {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "a party may only read its own access trail"))
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var entries []audit.Entry
	if forSubject {
		entries, err = h.audits.ForSubject(ctx, did, limit)
	} else {
		entries, err = h.audits.ForAccessor(ctx, did, limit)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return limit, nil
}
