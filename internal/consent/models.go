// Package consent tracks time-bounded, scoped authorization grants from a
// subject (patient) to a grantee (practitioner). Grants are never hard
// deleted; status and time fields model the whole lifecycle.
package consent

import (
	"encoding/json"
	"time"

	"medblock/internal/ledger"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

// Status is the stored lifecycle state. Expiry is deliberately not a
// stored transition: it is derived from ExpiresAt at read time, so a
// grant can flip to expired between two reads without any write.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// Scope restricts a grant to resource types: a tagged pair of either all
// records or an explicit type set, never a free-form list.
type Scope struct {
	All   bool
	Types []domain.ResourceType
}

// ScopeAll grants access to every resource type.
func ScopeAll() Scope { return Scope{All: true} }

// ScopeOf grants access to the listed resource types.
func ScopeOf(types ...domain.ResourceType) Scope { return Scope{Types: types} }

// ParseScope builds a Scope from wire form: ["all"] or a list of resource
// type names. An empty list is rejected rather than silently widened.
func ParseScope(values []string) (Scope, error) {
	if len(values) == 0 {
		return Scope{}, dErrors.New(dErrors.CodeBadRequest, "scope must not be empty")
	}
	for _, v := range values {
		if v == "all" {
			return ScopeAll(), nil
		}
	}
	types := make([]domain.ResourceType, 0, len(values))
	for _, v := range values {
		rt, err := domain.ParseResourceType(v)
		if err != nil {
			return Scope{}, err
		}
		types = append(types, rt)
	}
	return Scope{Types: types}, nil
}

// Contains reports whether the scope covers a resource type.
func (s Scope) Contains(rt domain.ResourceType) bool {
	if s.All {
		return true
	}
	for _, t := range s.Types {
		if t == rt {
			return true
		}
	}
	return false
}

// Values renders the wire form used in JSON and ledger metadata.
func (s Scope) Values() []string {
	if s.All {
		return []string{"all"}
	}
	out := make([]string, len(s.Types))
	for i, t := range s.Types {
		out[i] = string(t)
	}
	return out
}

func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	parsed, err := ParseScope(values)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Grant is one consent relationship between a subject and a grantee.
// LedgerRef ties the grant to its notarization; it is empty only while
// the grant is pending.
type Grant struct {
	ID         domain.ConsentID `json:"id"`
	SubjectDID domain.DID       `json:"subject_did"`
	GranteeDID domain.DID       `json:"grantee_did"`
	Status     Status           `json:"status"`
	Scope      Scope            `json:"scope"`
	GrantedAt  time.Time        `json:"granted_at"`
	ExpiresAt  time.Time        `json:"expires_at"`
	RevokedAt  *time.Time       `json:"revoked_at,omitempty"`
	LedgerRef  ledger.Ref       `json:"ledger_ref,omitempty"`
}

// IsActive holds exactly when status is active, the grant has not been
// revoked, and now is before expiry.
func (g Grant) IsActive(now time.Time) bool {
	return g.Status == StatusActive && g.RevokedAt == nil && now.Before(g.ExpiresAt)
}

// EffectiveStatus folds derived expiry into the stored status.
func (g Grant) EffectiveStatus(now time.Time) Status {
	if g.Status == StatusActive && g.RevokedAt == nil && !now.Before(g.ExpiresAt) {
		return StatusExpired
	}
	return g.Status
}
