// Package auth issues and checks the admin session tokens of the reference
// API, and hashes admin passwords.
//
// TOKEN SHAPE:
// A session is an HS256 JWT whose subject is the admin ID. The admin client
// keeps it verbatim and sends it as "Authorization: Bearer <token>"; it reads
// the exp claim without verifying to warn before the server would reject it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "studio-site"

// DefaultSessionTTL is how long an admin stays logged in.
const DefaultSessionTTL = 12 * time.Hour

// TokenService signs and validates session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService requires a secret of at least 16 characters; HMAC keys
// shorter than that can be brute-forced offline from any issued token.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Generate issues a session for adminID.
func (s *TokenService) Generate(adminID string) (string, error) {
	return s.generate(adminID, time.Now(), s.ttl)
}

func (s *TokenService) generate(adminID string, now time.Time, ttl time.Duration) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer and expiry and returns the admin ID.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		// Pinning the method blocks "alg: none" and RS/HS confusion.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return c.Subject, nil
}
