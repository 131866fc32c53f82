package gateway

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/sakif/studio-site/internal/apperror"
)

// TokenSource wraps a bearer token issued by the API's login endpoint.
//
// The client cannot verify the signature (it does not hold the secret), but
// it reads the expiry claim so an expired session fails locally with
// ErrUnauthorized instead of a round trip that ends in a 401.
func TokenSource(raw string) (oauth2.TokenSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperror.Unauthorized("not logged in")
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, apperror.Unauthorized("malformed token")
	}

	tok := &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
	}
	if claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return oauth2.ReuseTokenSource(tok, expiredSource{}), nil
}

// expiredSource is consulted by oauth2.ReuseTokenSource once the cached
// token is no longer valid. There is no refresh flow; the admin logs in again.
type expiredSource struct{}

func (expiredSource) Token() (*oauth2.Token, error) {
	return nil, apperror.Unauthorized("session expired, please log in again")
}

// TokenExpiry reports when raw stops being accepted. ok is false when the
// token has no expiry claim or cannot be parsed.
func TokenExpiry(raw string) (exp time.Time, ok bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
