// Package session carries the identity of the current user through the
// client. It is threaded explicitly into every call that needs the display
// name or the API token; nothing reads ambient global state.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonymousName is the display name used for stories authored before login.
const AnonymousName = "Anonymous User"

// Session holds the logged-in username and the bearer token issued by the
// remote API. A zero Session represents an anonymous, offline-only user.
type Session struct {
	Username string
	Token    string
}

// DisplayName returns the username or the anonymous fallback.
func (s *Session) DisplayName() string {
	if s == nil || s.Username == "" {
		return AnonymousName
	}
	return s.Username
}

// Authenticated reports whether a token is present at all.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// TokenExpired inspects the exp claim of the bearer token without verifying
// the signature; the client holds no key and the server re-checks every
// request anyway. Malformed tokens count as expired. Tokens without an exp
// claim never expire.
func (s *Session) TokenExpired(now time.Time) bool {
	if !s.Authenticated() {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return now.After(exp.Time)
}
