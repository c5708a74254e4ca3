package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oidc-gateway/server"
)

func TestRequireSessionDeniesAnonymous(t *testing.T) {
	f := setupFixture(t, true)

	calls := 0
	f.srv.RegisterRouteHandler("GET /protected-test", server.ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}, f.srv.RequireSession()))

	w := f.get(t, "/protected-test")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, calls) // Downstream handler never runs on deny

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "Unauthorized", body["error"])
	require.Equal(t, "Please login to access this resource", body["message"])
}

func TestRequireSessionAllowsPopulatedSession(t *testing.T) {
	f := setupFixture(t, true)
	cookie := f.login(t)

	calls := 0
	f.srv.RegisterRouteHandler("GET /protected-test", server.ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		calls++
		session, ok := server.SessionFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "user-123", session.Profile.Subject)
		w.WriteHeader(http.StatusOK)
	}, f.srv.RequireSession()))

	w := f.get(t, "/protected-test", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, calls) // Invoked exactly once
}

func TestCorsAllowsFrontendOrigin(t *testing.T) {
	f := setupFixture(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", testFrontendURL)
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, testFrontendURL, w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCorsIgnoresUnknownOrigin(t *testing.T) {
	f := setupFixture(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsPreflight(t *testing.T) {
	f := setupFixture(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/hello", nil)
	req.Header.Set("Origin", testFrontendURL)
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, testFrontendURL, w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRecoverMiddlewareConvertsPanics(t *testing.T) {
	f := setupFixture(t, true)

	w := f.get(t, "/api/test-alerts?type=error")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, "Internal Server Error", body["error"])
	require.Contains(t, body["message"], "Test Alert")
}
