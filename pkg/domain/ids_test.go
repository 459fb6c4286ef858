package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medblock/pkg/domain-errors"
)

// Parsing must reject empty, malformed and nil identifiers at trust
// boundaries; these are the inputs the HTTP layer forwards verbatim.
func TestParseRecordID_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"not a uuid", "not-a-uuid", true},
		{"nil uuid", uuid.Nil.String(), true},
		{"sql injection attempt", "'; DROP TABLE records;--", true},
		{"oversized input", strings.Repeat("a", 1000), true},
		{"valid uuid", uuid.New().String(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecordID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// IDs must cross the wire as uuid strings: the id a client receives from
// a create response has to parse back through the URL parsers.
func TestIDJSONWireForm(t *testing.T) {
	recordID := NewRecordID()
	consentID := NewConsentID()
	entryID := NewEntryID()

	payload := struct {
		Record  RecordID  `json:"record"`
		Consent ConsentID `json:"consent"`
		Entry   EntryID   `json:"entry"`
	}{recordID, consentID, entryID}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{"record":%q,"consent":%q,"entry":%q}`,
		recordID.String(), consentID.String(), entryID.String()), string(data))

	var decoded struct {
		Record  RecordID  `json:"record"`
		Consent ConsentID `json:"consent"`
		Entry   EntryID   `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, recordID, decoded.Record)
	assert.Equal(t, consentID, decoded.Consent)
	assert.Equal(t, entryID, decoded.Entry)

	parsed, err := ParseRecordID(recordID.String())
	require.NoError(t, err)
	assert.Equal(t, recordID, parsed)
}

func TestParseDID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"missing method", "did::abc", true},
		{"missing suffix", "did:med:", true},
		{"wrong scheme", "urn:med:abc", true},
		{"two segments", "did:med", true},
		{"valid", "did:med:7f3a9c2e", false},
		{"valid with colons in suffix", "did:prism:abc:def", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, d.String())
			}
		})
	}
}

func TestDIDMethod(t *testing.T) {
	assert.Equal(t, "med", DID("did:med:abc").Method())
	assert.Equal(t, "", DID("garbage").Method())
}

func TestParseResourceTypeAndAction(t *testing.T) {
	rt, err := ParseResourceType("Observation")
	require.NoError(t, err)
	assert.Equal(t, ResourceObservation, rt)

	_, err = ParseResourceType("Banana")
	require.Error(t, err)

	a, err := ParseAction("read")
	require.NoError(t, err)
	assert.Equal(t, ActionRead, a)

	_, err = ParseAction("peek")
	require.Error(t, err)
}
