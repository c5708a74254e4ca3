package config

import "time"

type OidcConfig interface {
	GetIssuer() string
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetProviderTimeout() time.Duration
}

type Oidc struct{}

var _ OidcConfig = Oidc{}

func (Oidc) GetIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (Oidc) GetClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (Oidc) GetClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (Oidc) GetRedirectURI() string {
	return GetEnv("OIDC_REDIRECT_URI", "http://localhost:3000/auth/callback")
}

func (Oidc) GetScopes() []string {
	return []string{"openid", "profile", "email"}
}

// GetProviderTimeout bounds discovery, token exchange and userinfo calls
func (Oidc) GetProviderTimeout() time.Duration {
	return 15 * time.Second
}
