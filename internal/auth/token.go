package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload: the user identity plus the registered claims.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. Tokens are stateless
// and cannot be revoked before they expire.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenManager.
type Option func(*TokenManager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(t *TokenManager) {
		t.now = now
	}
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration, opts ...Option) *TokenManager {
	t := &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Generate issues a signed JWT string for the provided user ID.
func (t *TokenManager) Generate(userID uuid.UUID) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded user ID.
// The returned error is one of ErrMalformed, ErrExpired or ErrBadSignature.
// Resolving the ID to an existing user is the caller's job.
func (t *TokenManager) Verify(tokenString string) (uuid.UUID, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return uuid.Nil, ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, ErrExpired
	default:
		return uuid.Nil, errors.Join(ErrMalformed, err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.Join(ErrMalformed, fmt.Errorf("user_id claim: %w", err))
	}
	return id, nil
}
