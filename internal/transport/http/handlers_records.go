package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"medblock/internal/access"
	"medblock/internal/records"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/httputil"
	"medblock/pkg/requestcontext"
)

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	author := requestcontext.AccessorDID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.records.Notarize(ctx, records.CreateRequest{
		SubjectDID:   req.parsedSubject,
		AuthorDID:    author,
		ResourceType: req.parsedResourceType,
		Payload:      req.Payload,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.metrics.RecordsNotarized.Inc()
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// handleAccessRecord runs the gate. The response mirrors the gate result:
// payload plus the verification flag, never a bare payload.
func (h *Handler) handleAccessRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accessor := requestcontext.AccessorDID(ctx)

	recordID, err := domain.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	action := domain.ActionRead
	if raw := r.URL.Query().Get("action"); raw != "" {
		action, err = domain.ParseAction(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	result, err := h.gate.Access(ctx, access.Request{
		AccessorDID: accessor,
		RecordID:    recordID,
		Action:      action,
		IP:          requestcontext.ClientIP(ctx),
		UserAgent:   requestcontext.UserAgent(ctx),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"record":        result.Record,
		"hash_verified": result.HashVerified,
		"consent_ref":   result.ConsentRef,
	})
}

// handleListRecords returns payload-free summaries of a subject's
// records. Listing needs standing consent between the parties but is not
// a payload access, so it does not pass the gate or write audit entries;
// summaries are filtered to the resource types the accessor's active
// grants cover.
func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accessor := requestcontext.AccessorDID(ctx)

	subject, err := domain.ParseDID(r.URL.Query().Get("subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var allowed func(records.Summary) bool
	if accessor == subject {
		allowed = func(records.Summary) bool { return true }
	} else {
		grants, err := h.consents.ListActive(ctx, accessor, false, requestcontext.Now(ctx))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		covering := grants[:0]
		for _, g := range grants {
			if g.SubjectDID == subject {
				covering = append(covering, g)
			}
		}
		if len(covering) == 0 {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNoConsent, "no active consent from %s", subject))
			return
		}
		allowed = func(s records.Summary) bool {
			for _, g := range covering {
				if g.Scope.Contains(s.ResourceType) {
					return true
				}
			}
			return false
		}
	}

	summaries, err := h.records.ListBySubject(ctx, subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visible := make([]records.Summary, 0, len(summaries))
	for _, s := range summaries {
		if allowed(s) {
			visible = append(visible, s)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": visible})
}
