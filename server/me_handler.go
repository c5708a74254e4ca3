package server

import "net/http"

// MeUser is the browser-safe view of an authenticated user
type MeUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// MeResponse is the body of GET /me
type MeResponse struct {
	Authenticated bool    `json:"authenticated"`
	User          *MeUser `json:"user"`
}

// MeHandler reports the caller's authentication state. It never errors and
// has no side effects; an anonymous request simply reads as unauthenticated.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessionFromRequest(r)
		if !ok {
			writeJSON(w, http.StatusOK, MeResponse{Authenticated: false, User: nil})
			return
		}

		writeJSON(w, http.StatusOK, MeResponse{
			Authenticated: true,
			User: &MeUser{
				ID:    session.Profile.PrimaryID(),
				Email: session.Profile.Email,
			},
		})
	}
}
