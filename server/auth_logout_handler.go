package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LogoutHandler destroys the caller's session. A missing or invalid cookie is
// not an error; a store failure is.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if sessionID, err := s.cookies.Decode(cookie.Value); err == nil {
				if err := s.sessions.Delete(sessionID); err != nil {
					log.Error().Err(err).Msg("logout failed")
					http.Error(w, "Logout failed", http.StatusInternalServerError)
					return
				}
			}
		}

		s.ClearSessionCookie(w, r)
		http.Redirect(w, r, s.config.GetFrontendURL(), http.StatusFound)
	}
}
