// Package session keeps the authenticated user and their backend access
// token in a signed cookie, refreshing the cached user from the backend when
// it goes stale.
package session

import (
	"context"
	"errors"
	"time"

	"devlink/client/backend"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

var (
	ErrNoSession = errors.New("no session")
	ErrInvalid   = errors.New("invalid session token")
)

// UserInfo is the backend's view of the signed-in user. The session only caches it.
type UserInfo = backend.User

// Session is the decoded cookie payload.
type Session struct {
	User        UserInfo  `json:"user"`
	AccessToken string    `json:"accessToken"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Payload is what sign-in, sign-up and the OAuth callback hand to Create.
type Payload struct {
	User        UserInfo
	AccessToken string
}

// UserSource fetches the current user for an access token (GET /auth/me).
type UserSource interface {
	Me(ctx context.Context, accessToken string) (*UserInfo, error)
}

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by the route guard, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
