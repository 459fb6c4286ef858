package httptransport

import (
	"strings"
	"time"

	"medblock/internal/consent"
	"medblock/internal/identity"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

// RegisterRequest is the body for POST /identity/patients and
// /identity/practitioners.
type RegisterRequest struct {
	Name string `json:"name"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeBadRequest, "name must be at most 200 characters")
	}
	return nil
}

// ChallengeRequest is the body for POST /identity/challenge.
type ChallengeRequest struct {
	DID string `json:"did"`

	parsedDID domain.DID
}

func (r *ChallengeRequest) Validate() error {
	did, err := domain.ParseDID(strings.TrimSpace(r.DID))
	if err != nil {
		return err
	}
	r.parsedDID = did
	return nil
}

// CreateRecordRequest is the body for POST /records. The author is the
// authenticated accessor, never a body field.
type CreateRecordRequest struct {
	SubjectDID   string         `json:"subject_did"`
	ResourceType string         `json:"resource_type"`
	Payload      map[string]any `json:"payload"`

	parsedSubject      domain.DID
	parsedResourceType domain.ResourceType
}

func (r *CreateRecordRequest) Validate() error {
	subject, err := domain.ParseDID(strings.TrimSpace(r.SubjectDID))
	if err != nil {
		return err
	}
	resourceType, err := domain.ParseResourceType(strings.TrimSpace(r.ResourceType))
	if err != nil {
		return err
	}
	if len(r.Payload) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "payload is required")
	}
	r.parsedSubject = subject
	r.parsedResourceType = resourceType
	return nil
}

// GrantConsentRequest is the body for POST /consents. The subject is the
// authenticated accessor; consent can only be given, never taken.
type GrantConsentRequest struct {
	GranteeDID    string   `json:"grantee_did"`
	Scope         []string `json:"scope"`
	DurationHours int      `json:"duration_hours"`

	parsedGrantee domain.DID
	parsedScope   consent.Scope
}

func (r *GrantConsentRequest) Validate() error {
	grantee, err := domain.ParseDID(strings.TrimSpace(r.GranteeDID))
	if err != nil {
		return err
	}
	scope, err := consent.ParseScope(r.Scope)
	if err != nil {
		return err
	}
	if r.DurationHours < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "duration_hours must not be negative")
	}
	r.parsedGrantee = grantee
	r.parsedScope = scope
	return nil
}

// TTL converts the requested duration; zero selects the service default.
func (r *GrantConsentRequest) TTL() time.Duration {
	return time.Duration(r.DurationHours) * time.Hour
}

type registrationResponse struct {
	DID       domain.DID    `json:"did"`
	Kind      identity.Kind `json:"kind"`
	Name      string        `json:"name"`
	PublicKey []byte        `json:"public_key"`

	// The private key is returned exactly once and never stored.
	PrivateKey []byte `json:"private_key"`
}
