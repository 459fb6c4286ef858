package domain

import (
	"strings"

	dErrors "medblock/pkg/domain-errors"
)

// DID is a decentralized identifier naming a patient or practitioner. Its
// authenticity is established by the identity resolver, never assumed from
// the string itself. Format: did:<method>:<method-specific-suffix>.
type DID string

func (d DID) String() string { return string(d) }

// Method returns the DID method segment, or "" for a malformed DID.
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// ParseDID validates the three-segment did:method:suffix shape. The suffix
// is opaque here; deeper validation belongs to the identity network.
func ParseDID(s string) (DID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "did must not be empty")
	}
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "did must have the form did:<method>:<suffix>")
	}
	return DID(s), nil
}
