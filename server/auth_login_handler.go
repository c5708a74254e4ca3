package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LoginHandler starts the authorization-code flow. There is no prior-session
// short-circuit: an already-authenticated browser is still redirected so the
// provider re-authenticates it (prompt=login).
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.idp.Ready() {
			http.Error(w, "OIDC client not initialized", http.StatusInternalServerError)
			return
		}

		authURL, err := s.idp.AuthorizationURL()
		if err != nil {
			http.Error(w, "OIDC client not initialized", http.StatusInternalServerError)
			return
		}

		log.Debug().Str("auth_url", authURL).Msg("redirecting to OIDC provider")
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
