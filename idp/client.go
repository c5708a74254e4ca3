package idp

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-oidc-gateway/internal/config"
	"github.com/jrsteele09/go-oidc-gateway/internal/errors"
)

// State tracks the client lifecycle. Discovery runs asynchronously at process
// start; request handlers read the current state and fail fast instead of
// waiting for it.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// TokenSet holds the provider tokens received from the code exchange. It is
// owned by the session store and never sent to the browser.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Client wraps the registered relying-party credentials and, once Discover
// has run, the issuer's discovered metadata.
type Client struct {
	cfg        config.OidcConfig
	httpClient *http.Client

	mu           sync.RWMutex
	state        State
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// New creates an uninitialized client. Call Discover before use.
func New(cfg config.OidcConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.GetProviderTimeout()},
		state:      StateUninitialized,
	}
}

// Discover fetches the issuer's well-known configuration and moves the client
// to ready. On failure the client is left failed and every dependent
// operation reports ErrClientNotInitialized; it never panics or blocks
// request handling.
func (c *Client) Discover(ctx context.Context) error {
	issuer := c.cfg.GetIssuer()
	if issuer == "" {
		c.setState(StateFailed)
		return errors.Wrapf(errors.ErrDiscoveryFailed, "OIDC_ISSUER not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetProviderTimeout())
	defer cancel()
	ctx = oidc.ClientContext(ctx, c.httpClient)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		c.setState(StateFailed)
		return errors.Wrapf(errors.ErrDiscoveryFailed, "issuer %q: %v", issuer, err)
	}

	c.mu.Lock()
	c.provider = provider
	c.oauth2Config = &oauth2.Config{
		ClientID:     c.cfg.GetClientID(),
		ClientSecret: c.cfg.GetClientSecret(),
		Endpoint:     provider.Endpoint(),
		RedirectURL:  c.cfg.GetRedirectURI(),
		Scopes:       c.cfg.GetScopes(),
	}
	c.verifier = provider.Verifier(&oidc.Config{ClientID: c.cfg.GetClientID()})
	c.state = StateReady
	c.mu.Unlock()

	log.Info().Str("issuer", issuer).Msg("OIDC issuer discovered")
	return nil
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Ready reports whether discovery completed successfully
func (c *Client) Ready() bool {
	return c.State() == StateReady
}

// snapshot returns the discovered configuration, or an error while the client
// is not ready.
func (c *Client) snapshot() (*oidc.Provider, *oauth2.Config, *oidc.IDTokenVerifier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady {
		return nil, nil, nil, errors.ErrClientNotInitialized
	}
	return c.provider, c.oauth2Config, c.verifier, nil
}

// AuthorizationURL builds the provider redirect for a new login attempt.
// prompt=login forces re-authentication even when the provider holds a live
// browser session. The request carries no state or PKCE parameters, matching
// the registered client's observed flow.
func (c *Client) AuthorizationURL() (string, error) {
	_, oauth2Config, _, err := c.snapshot()
	if err != nil {
		return "", err
	}
	return oauth2Config.AuthCodeURL("", oauth2.SetAuthURLParam("prompt", "login")), nil
}

// Exchange trades the authorization code for a token set. The call is bounded
// by the provider timeout; expiry, redirect URI mismatch and provider-side
// rejections all surface as ErrExchangeFailed.
func (c *Client) Exchange(ctx context.Context, code string) (TokenSet, error) {
	_, oauth2Config, verifier, err := c.snapshot()
	if err != nil {
		return TokenSet{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetProviderTimeout())
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		return TokenSet{}, errors.Wrapf(errors.ErrExchangeFailed, "%v", err)
	}

	ts := TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	// Verify the ID token signature and claims when the provider returns one
	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		if _, err := verifier.Verify(ctx, rawIDToken); err != nil {
			return TokenSet{}, errors.Wrapf(errors.ErrExchangeFailed, "ID token verification: %v", err)
		}
		ts.IDToken = rawIDToken
	}

	return ts, nil
}
