package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeNoConsent, "no active grant")
	assert.True(t, HasCode(err, CodeNoConsent))
	assert.False(t, HasCode(err, CodeIntegrityViolation))
	assert.False(t, HasCode(nil, CodeNoConsent))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestHasCode_WrappedChain(t *testing.T) {
	cause := New(CodeLedgerUnavailable, "ledger down")
	err := Wrap(cause, CodeInternal, "grant failed")

	assert.True(t, HasCode(err, CodeInternal))
	assert.True(t, HasCode(err, CodeLedgerUnavailable))
}

func TestWrap_NilPassthrough(t *testing.T) {
	require.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeForbidden, CodeOf(New(CodeForbidden, "not the subject")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNoConsent, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeLedgerUnavailable, http.StatusServiceUnavailable},
		{CodeIntegrityViolation, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}

func TestErrorString(t *testing.T) {
	err := Wrap(errors.New("dial tcp: refused"), CodeLedgerUnavailable, "notarize consent")
	assert.Contains(t, err.Error(), "ledger_unavailable")
	assert.Contains(t, err.Error(), "dial tcp: refused")
}
