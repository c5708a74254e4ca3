package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-oidc-gateway/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the authenticated session
	ContextKeySession ContextKey = "session"
)

// sessionFromRequest resolves the caller's session from the signed cookie.
// Every failure mode (no cookie, bad signature, unknown or expired session)
// reads as anonymous.
func (s *Server) sessionFromRequest(r *http.Request) (sessions.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return sessions.Session{}, false
	}

	sessionID, err := s.cookies.Decode(cookie.Value)
	if err != nil {
		return sessions.Session{}, false
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil || !session.Authenticated() {
		return sessions.Session{}, false
	}

	return session, true
}

// RequireSession is the guard for protected routes. It invokes the downstream
// handler only when a populated session exists for the request; otherwise it
// answers 401 with a stable machine-readable body.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := s.sessionFromRequest(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error":   "Unauthorized",
					"message": "Please login to access this resource",
				})
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// SessionFromContext returns the session injected by RequireSession
func SessionFromContext(ctx context.Context) (sessions.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(sessions.Session)
	return session, ok
}
