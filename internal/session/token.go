package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the client can learn about a credential without holding
// the signing secret.
type Identity struct {
	UserID    string
	ExpiresAt time.Time
}

// Inspect decodes the claims of a bearer token without verifying the
// signature; verification is the backend's job. It is used to recover the
// user id when an auth response omits it, and to report expiry.
func Inspect(token string) (Identity, error) {
	var id Identity

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return id, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return id, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}

	for _, key := range []string{"userId", "user_id", "sub"} {
		if v, found := claims[key]; found {
			switch u := v.(type) {
			case string:
				id.UserID = u
			case float64:
				id.UserID = fmt.Sprintf("%.0f", u)
			}
			if id.UserID != "" {
				break
			}
		}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}

	return id, nil
}

// Expired reports whether the token carries an expiry in the past. Tokens
// without an exp claim are treated as unexpired.
func Expired(token string, now time.Time) bool {
	id, err := Inspect(token)
	if err != nil {
		return true
	}
	if id.ExpiresAt.IsZero() {
		return false
	}
	return id.ExpiresAt.Before(now)
}
