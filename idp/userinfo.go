package idp

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-oidc-gateway/internal/errors"
)

// Profile is the normalized identity fetched from the provider's userinfo
// endpoint. Subject is always present after a successful fetch; every other
// provider-defined field is kept in Extra.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Extra   map[string]any
}

// PrimaryID prefers the provider's own identifier field over the OIDC
// subject, which is what downstream consumers key users on.
func (p Profile) PrimaryID() string {
	if id, ok := p.Extra["id"].(string); ok && id != "" {
		return id
	}
	return p.Subject
}

// Subject fallbacks for providers whose userinfo response omits the standard
// sub claim, in preference order.
var subjectFallbackClaims = []string{"firebaseId", "id"}

// UserInfo fetches the user's profile with the access token. Non-compliant
// providers that omit sub are tolerated: the response body is still treated
// as the profile and the subject is synthesized from a fallback identifier
// claim. Only when no fallback exists does the call fail.
func (c *Client) UserInfo(ctx context.Context, ts TokenSet) (Profile, error) {
	provider, _, _, err := c.snapshot()
	if err != nil {
		return Profile{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetProviderTimeout())
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	userInfo, err := provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: ts.AccessToken,
		TokenType:   "Bearer",
	}))
	if err != nil {
		return Profile{}, errors.Wrapf(errors.ErrUserInfoFailed, "%v", err)
	}

	claims := map[string]any{}
	if err := userInfo.Claims(&claims); err != nil {
		return Profile{}, errors.Wrapf(errors.ErrUserInfoFailed, "decoding claims: %v", err)
	}

	profile := Profile{
		Subject: userInfo.Subject,
		Email:   userInfo.Email,
		Extra:   claims,
	}
	if name, ok := claims["name"].(string); ok {
		profile.Name = name
	}

	if profile.Subject == "" {
		for _, claim := range subjectFallbackClaims {
			if v, ok := claims[claim].(string); ok && v != "" {
				log.Warn().Str("claim", claim).Msg("userinfo response missing sub, recovered from fallback claim")
				profile.Subject = v
				break
			}
		}
	}
	if profile.Subject == "" {
		return Profile{}, errors.ErrNoSubject
	}

	return profile, nil
}
