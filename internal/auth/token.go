package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token verification. Expired and invalid tokens are
// distinguishable so the gate can report them differently.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrNoSigningKey indicates the issuer was built without a signing key.
	// Issuing unsigned tokens is never acceptable, so this fails loudly.
	ErrNoSigningKey = errors.New("signing key is empty")
)

// Claims is the payload carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	UserID   string `json:"id"`
}

// TokenManager mints and verifies signed, expiring session tokens.
// Tokens are stateless: validity is determined solely by signature and
// expiry, nothing is stored server-side.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager signing with the given secret and
// issuing tokens valid for ttl.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue produces a signed token carrying {username, id} expiring at now+ttl.
func (m *TokenManager) Issue(username, userID string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSigningKey
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: username,
		UserID:   userID,
	})

	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims.
// Returns ErrTokenExpired for expired tokens and ErrTokenInvalid for
// everything else that fails validation.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
