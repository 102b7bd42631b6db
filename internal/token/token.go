// Package token implements the stateless session token service.
package token

import (
	"errors"
	"time"

	"devsocial/internal/errs"

	"github.com/golang-jwt/jwt/v5"
)

// Service mints and verifies signed session tokens. Verification is a pure
// function of (token, current time, secret); a revoked-but-unexpired token
// cannot be detected.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a token service with the given signing secret and lifetime
func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed HS256 token embedding the user id and expiry
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify checks the token signature and expiry and returns the embedded
// user id. Fails with errs.ErrTokenExpired when past expiry and
// errs.ErrTokenInvalid on signature mismatch or malformed structure.
func (s *Service) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errs.ErrTokenExpired
		}
		return "", errs.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", errs.ErrTokenInvalid
	}
	return claims.Subject, nil
}
