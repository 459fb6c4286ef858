package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

// ChallengeClaims bind a challenge token to the DID it was issued for.
type ChallengeClaims struct {
	DID string `json:"did"`
	jwt.RegisteredClaims
}

// ChallengeService mints and validates the short-lived tokens a client
// signs with its DID key to authenticate. The token supplies freshness
// (expiry + unique jti) so a captured signature cannot be replayed after
// the challenge lapses; the signature supplies authenticity.
type ChallengeService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewChallengeService(signingKey string, issuer string, ttl time.Duration) *ChallengeService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ChallengeService{signingKey: []byte(signingKey), issuer: issuer, ttl: ttl}
}

// Issue mints a challenge token for the given DID.
func (s *ChallengeService) Issue(did domain.DID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ChallengeClaims{
		DID: string(did),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate checks the token and returns the DID it was issued for.
func (s *ChallengeService) Validate(tokenString string) (domain.DID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &ChallengeClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "challenge has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid challenge token")
	}
	claims, ok := parsed.Claims.(*ChallengeClaims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid challenge token")
	}
	did, perr := domain.ParseDID(claims.DID)
	if perr != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "challenge token carries no did")
	}
	return did, nil
}
