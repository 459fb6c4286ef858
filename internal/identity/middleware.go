package identity

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
	"medblock/pkg/platform/httputil"
	"medblock/pkg/requestcontext"
)

// Authorization header format, following the DID auth scheme:
//
//	Authorization: DID <did> signature:<base64 signature>
//	X-DID-Message: <challenge token>
//
// The signature covers the raw challenge token bytes. The middleware
// validates the challenge first (freshness, binding to the DID), then the
// signature against resolved key material.
const (
	authScheme      = "DID "
	signaturePrefix = "signature:"
	messageHeader   = "X-DID-Message"
)

// RequireDIDAuth authenticates requests via DID signature over a
// server-issued challenge. Failures are 401s; nothing downstream runs
// without a verified accessor in context.
func RequireDIDAuth(challenges *ChallengeService, resolver Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			did, sig, ok := parseAuthHeader(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "missing or malformed Authorization header")
				return
			}
			message := r.Header.Get(messageHeader)
			if message == "" {
				unauthorized(w, "missing "+messageHeader+" header")
				return
			}

			challengeDID, err := challenges.Validate(message)
			if err != nil {
				logger.WarnContext(ctx, "rejected access: invalid challenge", "did", did, "error", err)
				unauthorized(w, "invalid or expired challenge")
				return
			}
			if challengeDID != did {
				logger.WarnContext(ctx, "rejected access: challenge issued for another did", "did", did)
				unauthorized(w, "challenge was not issued for this did")
				return
			}

			valid, err := resolver.VerifySignature(ctx, did, []byte(message), sig)
			if err != nil {
				logger.ErrorContext(ctx, "signature verification failed", "did", did, "error", err)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "verify signature"))
				return
			}
			if !valid {
				logger.WarnContext(ctx, "rejected access: invalid did signature", "did", did)
				unauthorized(w, "signature does not verify against the did's key")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAccessorDID(ctx, did)))
		})
	}
}

func parseAuthHeader(header string) (domain.DID, []byte, bool) {
	rest, found := strings.CutPrefix(header, authScheme)
	if !found {
		return "", nil, false
	}
	parts := strings.Fields(rest)
	if len(parts) != 2 {
		return "", nil, false
	}
	did, err := domain.ParseDID(parts[0])
	if err != nil {
		return "", nil, false
	}
	encoded, found := strings.CutPrefix(parts[1], signaturePrefix)
	if !found {
		return "", nil, false
	}
	sig, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, false
	}
	return did, sig, true
}

func unauthorized(w http.ResponseWriter, description string) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, description))
}
