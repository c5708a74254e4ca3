package sessions

import (
	"time"

	"github.com/jrsteele09/go-oidc-gateway/idp"
)

// Session is the server-side record of an authenticated browser. It is
// created only after a successful code exchange and userinfo fetch, so
// TokenSet and Profile are always populated together.
type Session struct {
	ID       string       // Opaque identifier carried (signed) in the cookie
	TokenSet idp.TokenSet // Provider tokens, never exposed to the browser
	Profile  idp.Profile

	CreatedAt time.Time
	ExpiresAt time.Time // Fixed absolute expiry from creation
}

// Authenticated reports whether the session carries a usable identity.
func (s Session) Authenticated() bool {
	return s.Profile.Subject != "" && s.TokenSet.AccessToken != ""
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
}
