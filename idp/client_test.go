package idp_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oidc-gateway/idp"
	"github.com/jrsteele09/go-oidc-gateway/idp/idptest"
	"github.com/jrsteele09/go-oidc-gateway/internal/errors"
)

const testRedirectURI = "http://localhost:3000/auth/callback"

// testOidcConfig implements config.OidcConfig against a fake issuer
type testOidcConfig struct {
	issuer       string
	clientID     string
	clientSecret string
}

func (c testOidcConfig) GetIssuer() string                 { return c.issuer }
func (c testOidcConfig) GetClientID() string               { return c.clientID }
func (c testOidcConfig) GetClientSecret() string           { return c.clientSecret }
func (c testOidcConfig) GetRedirectURI() string            { return testRedirectURI }
func (c testOidcConfig) GetScopes() []string               { return []string{"openid", "profile", "email"} }
func (c testOidcConfig) GetProviderTimeout() time.Duration { return 5 * time.Second }

// setupClient starts a fake issuer and returns a discovered client
func setupClient(t *testing.T) (*idptest.Server, *idp.Client) {
	t.Helper()

	issuer, err := idptest.New()
	require.NoError(t, err)
	t.Cleanup(issuer.Close)

	client := idp.New(testOidcConfig{
		issuer:       issuer.Issuer(),
		clientID:     issuer.ClientID,
		clientSecret: issuer.ClientSecret,
	})
	require.NoError(t, client.Discover(context.Background()))
	require.True(t, client.Ready())

	return issuer, client
}

func TestUninitializedClientFailsFast(t *testing.T) {
	client := idp.New(testOidcConfig{issuer: "http://localhost:1"})
	require.Equal(t, idp.StateUninitialized, client.State())

	_, err := client.AuthorizationURL()
	require.ErrorIs(t, err, errors.ErrClientNotInitialized)

	_, err = client.Exchange(context.Background(), "code")
	require.ErrorIs(t, err, errors.ErrClientNotInitialized)

	_, err = client.UserInfo(context.Background(), idp.TokenSet{AccessToken: "x"})
	require.ErrorIs(t, err, errors.ErrClientNotInitialized)
}

func TestDiscoverFailureLeavesClientUnusable(t *testing.T) {
	client := idp.New(testOidcConfig{issuer: "http://localhost:1"})

	err := client.Discover(context.Background())
	require.ErrorIs(t, err, errors.ErrDiscoveryFailed)
	require.Equal(t, idp.StateFailed, client.State())
	require.False(t, client.Ready())

	_, err = client.AuthorizationURL()
	require.ErrorIs(t, err, errors.ErrClientNotInitialized)
}

func TestDiscoverRequiresIssuer(t *testing.T) {
	client := idp.New(testOidcConfig{})

	err := client.Discover(context.Background())
	require.ErrorIs(t, err, errors.ErrDiscoveryFailed)
	require.Equal(t, idp.StateFailed, client.State())
}

func TestAuthorizationURL(t *testing.T) {
	issuer, client := setupClient(t)

	authURL, err := client.AuthorizationURL()
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	require.Equal(t, issuer.Issuer()+"/authorize", parsed.Scheme+"://"+parsed.Host+parsed.Path)

	q := parsed.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, issuer.ClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	require.Equal(t, "openid profile email", q.Get("scope"))
	require.Equal(t, "login", q.Get("prompt"))

	// The registered flow carries no CSRF state parameter
	_, hasState := q["state"]
	require.False(t, hasState)
}

func TestExchange(t *testing.T) {
	issuer, client := setupClient(t)

	ts, err := client.Exchange(context.Background(), "VALIDCODE")
	require.NoError(t, err)
	require.Equal(t, issuer.AccessToken, ts.AccessToken)
	require.Equal(t, "test-refresh-token", ts.RefreshToken)
	require.NotEmpty(t, ts.IDToken)
	require.WithinDuration(t, time.Now().Add(time.Hour), ts.ExpiresAt, time.Minute)
}

func TestExchangeInvalidCode(t *testing.T) {
	_, client := setupClient(t)

	_, err := client.Exchange(context.Background(), "BADCODE")
	require.ErrorIs(t, err, errors.ErrExchangeFailed)
}

func TestExchangeWithoutIDToken(t *testing.T) {
	issuer, client := setupClient(t)
	issuer.OmitIDToken()

	ts, err := client.Exchange(context.Background(), "VALIDCODE")
	require.NoError(t, err)
	require.Empty(t, ts.IDToken)
	require.Equal(t, issuer.AccessToken, ts.AccessToken)
}

func TestUserInfo(t *testing.T) {
	_, client := setupClient(t)

	ts, err := client.Exchange(context.Background(), "VALIDCODE")
	require.NoError(t, err)

	profile, err := client.UserInfo(context.Background(), ts)
	require.NoError(t, err)
	require.Equal(t, "user-123", profile.Subject)
	require.Equal(t, "john.doe@example.com", profile.Email)
	require.Equal(t, "John Doe", profile.Name)
	require.Equal(t, "user-123", profile.PrimaryID())
}

func TestUserInfoSubjectFallback(t *testing.T) {
	tests := []struct {
		name        string
		claims      map[string]any
		wantSubject string
	}{
		{
			name: "firebaseId preferred",
			claims: map[string]any{
				"firebaseId": "firebase-42",
				"id":         "provider-42",
				"email":      "jane@example.com",
			},
			wantSubject: "firebase-42",
		},
		{
			name: "id as last fallback",
			claims: map[string]any{
				"id":    "provider-42",
				"email": "jane@example.com",
			},
			wantSubject: "provider-42",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issuer, client := setupClient(t)
			issuer.SetUserInfo(tc.claims)

			profile, err := client.UserInfo(context.Background(), idp.TokenSet{AccessToken: issuer.AccessToken})
			require.NoError(t, err)
			require.Equal(t, tc.wantSubject, profile.Subject)
			require.Equal(t, "jane@example.com", profile.Email)
		})
	}
}

func TestUserInfoNoSubjectNoFallback(t *testing.T) {
	issuer, client := setupClient(t)
	issuer.SetUserInfo(map[string]any{"email": "jane@example.com"})

	_, err := client.UserInfo(context.Background(), idp.TokenSet{AccessToken: issuer.AccessToken})
	require.ErrorIs(t, err, errors.ErrNoSubject)
}

func TestUserInfoRejectedToken(t *testing.T) {
	_, client := setupClient(t)

	_, err := client.UserInfo(context.Background(), idp.TokenSet{AccessToken: "wrong-token"})
	require.ErrorIs(t, err, errors.ErrUserInfoFailed)
}

func TestPrimaryIDPrefersProviderID(t *testing.T) {
	profile := idp.Profile{
		Subject: "sub-1",
		Extra:   map[string]any{"id": "provider-1"},
	}
	require.Equal(t, "provider-1", profile.PrimaryID())

	profile.Extra = map[string]any{}
	require.Equal(t, "sub-1", profile.PrimaryID())
}
