package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Decode failure kinds. AuthGuard collapses all three into one client-facing
// message; these exist so tests and logs can tell them apart.
var (
	ErrInvalidSignature = errors.New("token signature does not match")
	ErrExpired          = errors.New("token has expired")
	ErrMalformed        = errors.New("token is malformed")
)

// TokenCodec encodes and decodes signed identity claims.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec signing with the given secret. A non-positive
// TTL falls back to one hour.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Claims describes the identity payload embedded in a token.
type Claims struct {
	jwt.RegisteredClaims
}

// Encode builds and signs a token for the subject, valid for the codec TTL.
func (tc *TokenCodec) Encode(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tc.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and expiry and returns the embedded claims.
// Fails with ErrInvalidSignature, ErrExpired or ErrMalformed.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return tc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
