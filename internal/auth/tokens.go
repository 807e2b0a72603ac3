package auth

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken reports a token that failed verification.
var ErrInvalidToken = errors.New("auth: invalid token")

const signingMethodName = "HS512"

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenIssuer mints and verifies session tokens. The signing key is random
// per process, so tokens do not survive a restart.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer constructs an issuer with a fresh random key.
func NewTokenIssuer(ttl time.Duration) (*TokenIssuer, error) {
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a session token for the username.
func (t *TokenIssuer) Issue(username string) (string, error) {
	now := t.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(t.key)
}

// Verify checks the signature and expiry and returns the username.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return t.key, nil },
		jwt.WithValidMethods([]string{signingMethodName}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}
