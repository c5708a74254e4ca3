package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	f := setupFixture(t, true)

	w := f.get(t, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "TEST", body["environment"])
	require.Equal(t, "ready", body["oidc"])
	require.NotEmpty(t, body["timestamp"])
}

func TestHealthReportsDegradedOidc(t *testing.T) {
	f := setupFixture(t, false)

	body := decodeBody(t, f.get(t, "/health"))
	require.Equal(t, "ok", body["status"]) // Process stays healthy without discovery
	require.Equal(t, "uninitialized", body["oidc"])
}

func TestHelloAnonymous(t *testing.T) {
	f := setupFixture(t, true)

	body := decodeBody(t, f.get(t, "/api/hello"))
	require.Equal(t, "Hello from API", body["message"])
	require.Nil(t, body["user"])
}

func TestHelloWithSession(t *testing.T) {
	f := setupFixture(t, true)
	cookie := f.login(t)

	body := decodeBody(t, f.get(t, "/api/hello", cookie))
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "john.doe@example.com", user["email"])
}

func TestInfo(t *testing.T) {
	f := setupFixture(t, true)

	body := decodeBody(t, f.get(t, "/api/info"))
	require.NotEmpty(t, body["name"])
	require.Equal(t, "1.0.0", body["version"])
	require.Contains(t, body["endpoints"], "/api/auth/login")
}

func TestSecureDataRequiresSession(t *testing.T) {
	f := setupFixture(t, true)

	w := f.get(t, "/api/secure-data")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "Unauthorized", body["error"])
}

func TestSecureDataWithSession(t *testing.T) {
	f := setupFixture(t, true)
	cookie := f.login(t)

	w := f.get(t, "/api/secure-data", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "user-123", user["id"])
	require.Equal(t, "john.doe@example.com", user["email"])
}

func TestTestAlertsUsage(t *testing.T) {
	f := setupFixture(t, true)

	body := decodeBody(t, f.get(t, "/api/test-alerts"))
	require.Equal(t, "Alert test endpoint ready", body["message"])
}

func TestTestAlertsLatency(t *testing.T) {
	f := setupFixture(t, true)

	body := decodeBody(t, f.get(t, "/api/test-alerts?type=latency&duration=10"))
	require.Equal(t, "Latency test complete", body["message"])
	require.EqualValues(t, 10, body["duration"])
}

func TestNotFoundIsJSON(t *testing.T) {
	f := setupFixture(t, true)

	w := f.get(t, "/no-such-route")
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "Not Found", body["error"])
	require.Equal(t, "/no-such-route", body["path"])
}
