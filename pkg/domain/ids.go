// Package domain holds the identifier and enum types shared across the
// module. IDs are distinct types over uuid.UUID so the compiler rejects
// cross-type assignment; DIDs are validated strings because their suffix
// format belongs to the identity network, not to us.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "medblock/pkg/domain-errors"
)

type (
	// RecordID identifies a medical record.
	RecordID uuid.UUID
	// ConsentID identifies a consent grant.
	ConsentID uuid.UUID
	// EntryID identifies an access-log entry.
	EntryID uuid.UUID
)

func NewRecordID() RecordID   { return RecordID(uuid.New()) }
func NewConsentID() ConsentID { return ConsentID(uuid.New()) }
func NewEntryID() EntryID     { return EntryID(uuid.New()) }

func (id RecordID) String() string  { return uuid.UUID(id).String() }
func (id ConsentID) String() string { return uuid.UUID(id).String() }
func (id EntryID) String() string   { return uuid.UUID(id).String() }

func (id RecordID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ConsentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshaling, so without
// these delegates an ID would serialize as a 16-byte array. The wire form
// is the canonical uuid string the Parse* functions accept.

func (id RecordID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id ConsentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id EntryID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *RecordID) UnmarshalText(data []byte) error  { return (*uuid.UUID)(id).UnmarshalText(data) }
func (id *ConsentID) UnmarshalText(data []byte) error { return (*uuid.UUID)(id).UnmarshalText(data) }
func (id *EntryID) UnmarshalText(data []byte) error   { return (*uuid.UUID)(id).UnmarshalText(data) }

// ParseRecordID validates and parses a record ID at a trust boundary.
// Empty, malformed and nil UUIDs are all rejected.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseID(s, "record id")
	return RecordID(u), err
}

// ParseConsentID validates and parses a consent grant ID.
func ParseConsentID(s string) (ConsentID, error) {
	u, err := parseID(s, "consent id")
	return ConsentID(u), err
}

func parseID(s, what string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s must not be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s is not a valid uuid", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s must not be the nil uuid", what)
	}
	return u, nil
}
