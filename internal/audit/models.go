// Package audit records every allowed record access. Entries are
// append-only and carry a resolved ledger reference from the moment they
// exist; there is no pending or updatable state.
package audit

import (
	"time"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
)

// Entry is one allowed access decision. ConsentRef is nil exactly when
// the accessor is the subject.
type Entry struct {
	ID           domain.EntryID      `json:"id"`
	AccessorDID  domain.DID          `json:"accessor_did"`
	SubjectDID   domain.DID          `json:"subject_did"`
	ResourceType domain.ResourceType `json:"resource_type"`
	ResourceID   domain.RecordID     `json:"resource_id"`
	Action       domain.Action       `json:"action"`
	ConsentRef   *domain.ConsentID   `json:"consent_ref,omitempty"`
	DecidedAt    time.Time           `json:"decided_at"`
	LedgerRef    ledger.Ref          `json:"ledger_ref"`
	IP           string              `json:"ip,omitempty"`
	UserAgent    string              `json:"user_agent,omitempty"`
}
