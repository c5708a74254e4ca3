// Package idptest provides a scripted OpenID-Connect issuer for tests. It
// serves discovery, JWKS, token and userinfo endpoints from an httptest
// server and signs ID tokens with a throwaway RSA key.
package idptest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keyID = "idptest-key"

// Server is a fake identity provider. Fields may be mutated between requests
// to script provider behavior.
type Server struct {
	*httptest.Server

	ClientID     string
	ClientSecret string
	AccessToken  string // Access token returned by the token endpoint

	mu             sync.Mutex
	validCodes     map[string]bool
	userInfo       map[string]any
	userInfoStatus int
	includeIDToken bool

	key *rsa.PrivateKey
}

// New starts a fake issuer with one valid authorization code ("VALIDCODE")
// and a compliant default userinfo response.
func New() (*Server, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	s := &Server{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		AccessToken:  "test-access-token",
		validCodes:   map[string]bool{"VALIDCODE": true},
		userInfo: map[string]any{
			"sub":   "user-123",
			"email": "john.doe@example.com",
			"name":  "John Doe",
		},
		userInfoStatus: http.StatusOK,
		includeIDToken: true,
		key:            key,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", s.discoveryHandler)
	mux.HandleFunc("GET /jwks", s.jwksHandler)
	mux.HandleFunc("POST /token", s.tokenHandler)
	mux.HandleFunc("GET /userinfo", s.userInfoHandler)
	s.Server = httptest.NewServer(mux)

	return s, nil
}

// Issuer returns the issuer URL of the running fake
func (s *Server) Issuer() string {
	return s.URL
}

// AllowCode marks an authorization code as exchangeable
func (s *Server) AllowCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validCodes[code] = true
}

// SetUserInfo scripts the userinfo response body
func (s *Server) SetUserInfo(claims map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfo = claims
}

// SetUserInfoStatus scripts the userinfo response status
func (s *Server) SetUserInfoStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfoStatus = status
}

// OmitIDToken drops the id_token from token responses
func (s *Server) OmitIDToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeIDToken = false
}

func (s *Server) discoveryHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                s.URL,
		"authorization_endpoint":                s.URL + "/authorize",
		"token_endpoint":                        s.URL + "/token",
		"userinfo_endpoint":                     s.URL + "/userinfo",
		"jwks_uri":                              s.URL + "/jwks",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (s *Server) jwksHandler(w http.ResponseWriter, _ *http.Request) {
	pub := s.key.Public().(*rsa.PublicKey)
	writeJSON(w, http.StatusOK, map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": keyID,
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}

	code := r.FormValue("code")
	s.mu.Lock()
	valid := s.validCodes[code]
	includeIDToken := s.includeIDToken
	sub, _ := s.userInfo["sub"].(string)
	s.mu.Unlock()

	if !valid {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "authorization code is invalid or expired",
		})
		return
	}

	resp := map[string]any{
		"access_token":  s.AccessToken,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": "test-refresh-token",
	}
	if includeIDToken {
		resp["id_token"] = s.signIDToken(sub)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AccessToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_token"})
		return
	}

	s.mu.Lock()
	status := s.userInfoStatus
	claims := s.userInfo
	s.mu.Unlock()

	writeJSON(w, status, claims)
}

func (s *Server) signIDToken(sub string) string {
	now := time.Now()
	if sub == "" {
		sub = "user-123"
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": s.URL,
		"aud": s.ClientID,
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	token.Header["kid"] = keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		panic("idptest: signing ID token: " + err.Error())
	}
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
