package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-gateway/sessions"
)

// CallbackHandler completes the authorization-code flow: code exchange, then
// userinfo fetch, then session creation. Any failure along the way surfaces
// as a 500 and leaves the session store untouched, so a session is never
// partially populated.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.idp.Ready() {
			http.Error(w, "OIDC client not initialized", http.StatusInternalServerError)
			return
		}

		if errorParam := r.FormValue("error"); errorParam != "" {
			authFailed(w, fmt.Errorf("%s: %s", errorParam, r.FormValue("error_description")))
			return
		}

		code := r.FormValue("code")
		if code == "" {
			authFailed(w, fmt.Errorf("missing code parameter"))
			return
		}

		tokenSet, err := s.idp.Exchange(r.Context(), code)
		if err != nil {
			authFailed(w, err)
			return
		}

		profile, err := s.idp.UserInfo(r.Context(), tokenSet)
		if err != nil {
			authFailed(w, err)
			return
		}

		now := time.Now()
		sessionID := generateRandomString(32)
		session := sessions.Session{
			ID:        sessionID,
			TokenSet:  tokenSet,
			Profile:   profile,
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.GetSessionMaxAge()),
		}

		if err := s.sessions.Upsert(sessionID, session); err != nil {
			authFailed(w, err)
			return
		}

		cookieValue, err := s.cookies.Encode(sessionID)
		if err != nil {
			// Roll back so no orphaned session outlives a failed login
			_ = s.sessions.Delete(sessionID)
			authFailed(w, err)
			return
		}
		s.SetSessionCookie(w, r, cookieValue)

		log.Info().Str("subject", profile.Subject).Str("email", profile.Email).Msg("user logged in")
		http.Redirect(w, r, s.config.GetFrontendURL(), http.StatusFound)
	}
}

func authFailed(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("authentication failed")
	http.Error(w, fmt.Sprintf("Authentication failed: %v", err), http.StatusInternalServerError)
}
