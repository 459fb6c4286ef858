// Package records stores clinical records with set-once integrity fields.
// A record's ContentHash is computed over exactly the business payload,
// never over identifiers, timestamps or the integrity fields themselves,
// and is anchored on the ledger at creation. Amendments are new records;
// nothing here mutates a stored payload.
package records

import (
	"time"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
)

// Record is one stored clinical resource.
type Record struct {
	ID           domain.RecordID     `json:"id"`
	SubjectDID   domain.DID          `json:"subject_did"`
	AuthorDID    domain.DID          `json:"author_did,omitempty"`
	ResourceType domain.ResourceType `json:"resource_type"`
	Payload      map[string]any      `json:"payload"`
	ContentHash  string              `json:"content_hash"`
	LedgerRef    ledger.Ref          `json:"ledger_ref"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Summary is the payload-free view used by listings, where the caller has
// not passed the access gate for any individual record.
type Summary struct {
	ID           domain.RecordID     `json:"id"`
	SubjectDID   domain.DID          `json:"subject_did"`
	ResourceType domain.ResourceType `json:"resource_type"`
	ContentHash  string              `json:"content_hash"`
	LedgerRef    ledger.Ref          `json:"ledger_ref"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Summarize strips the payload from a record.
func Summarize(r Record) Summary {
	return Summary{
		ID:           r.ID,
		SubjectDID:   r.SubjectDID,
		ResourceType: r.ResourceType,
		ContentHash:  r.ContentHash,
		LedgerRef:    r.LedgerRef,
		CreatedAt:    r.CreatedAt,
	}
}
