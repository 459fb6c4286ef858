// Package domainerrors provides coded errors that services return across
// module boundaries. Stores and infrastructure return sentinel errors
// (pkg/platform/sentinel); services translate those facts into one of the
// codes below so callers and the HTTP layer can branch on kind.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeForbidden  Code = "forbidden"
	CodeConflict   Code = "conflict"
	CodeTimeout    Code = "timeout"
	CodeInternal   Code = "internal"

	// CodeUnauthorized covers failed requester authentication (bad or
	// missing DID signature, expired challenge).
	CodeUnauthorized Code = "unauthorized"

	// CodeNoConsent is the expected denial outcome of an access check: no
	// active grant covers the requested resource. Callers act on it by
	// requesting consent; it is not an exception-level event.
	CodeNoConsent Code = "no_consent"

	// CodeIntegrityViolation signals that a record's recomputed content
	// hash no longer matches its stored hash. It indicates tampering or
	// corruption and must never be collapsed into CodeNoConsent.
	CodeIntegrityViolation Code = "integrity_violation"

	// CodeLedgerUnavailable signals that notarization could not be
	// obtained. Fatal on write paths, non-fatal on the audit-log path.
	CodeLedgerUnavailable Code = "ledger_unavailable"

	// Hasher configuration/programmer errors. Never retried.
	CodeUnsupportedAlgorithm Code = "unsupported_algorithm"
	CodeSerialization        Code = "serialization_error"
)

// Error carries a code for branching plus a human-readable message. The
// wrapped cause, when present, participates in errors.Is/As chains.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf returns the outermost code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport layer should
// return. Integrity violations deliberately map to 500: the record is
// unusable regardless of who asks.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeSerialization:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNoConsent:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeLedgerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
