package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const apiVersion = "1.0.0"

// maxLatencySimulation caps /api/test-alerts latency injection
const maxLatencySimulation = 30 * time.Second

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// HealthHandler reports process liveness. It stays up even when issuer
// discovery failed; auth routes degrade instead.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"timestamp":   timestamp(),
			"environment": s.env,
			"uptime":      time.Since(s.startedAt).Seconds(),
			"oidc":        s.idp.State().String(),
		})
	}
}

// HelloHandler is a public echo endpoint; it includes the caller's email when
// a session happens to exist but never requires one.
func (s *Server) HelloHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user map[string]any
		if session, ok := s.sessionFromRequest(r); ok {
			user = map[string]any{"email": session.Profile.Email}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Hello from API",
			"timestamp": timestamp(),
			"user":      user,
		})
	}
}

func (s *Server) InfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":    s.config.GetAppName(),
			"version": apiVersion,
			"endpoints": []string{
				RouteHealth,
				RouteAPIHello,
				RouteAPIInfo,
				"/api/auth" + RouteLogin,
				"/api/auth" + RouteMe,
				RouteAPISecureData,
			},
			"documentation": "See README.md for details",
		})
	}
}

// SecureDataHandler is a guard-protected resource; RequireSession has already
// populated the context when it runs.
func (s *Server) SecureDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user map[string]any
		if session, ok := SessionFromContext(r.Context()); ok {
			user = map[string]any{
				"id":    session.Profile.PrimaryID(),
				"email": session.Profile.Email,
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "This is sensitive data only for logged-in users!",
			"user":      user,
			"timestamp": timestamp(),
		})
	}
}

// TestAlertsHandler exists for alerting drills: it can raise a deliberate
// error through the recover path or inject response latency.
func (s *Server) TestAlertsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "error":
			panic("Test Alert: Manual Trigger for High Error Rate")
		case "latency":
			duration := 3 * time.Second
			if ms, err := strconv.Atoi(r.URL.Query().Get("duration")); err == nil && ms > 0 {
				duration = time.Duration(ms) * time.Millisecond
			}
			if duration > maxLatencySimulation {
				duration = maxLatencySimulation
			}
			time.Sleep(duration)
			writeJSON(w, http.StatusOK, map[string]any{
				"message":   "Latency test complete",
				"duration":  duration.Milliseconds(),
				"timestamp": timestamp(),
			})
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Alert test endpoint ready",
				"usage": map[string]any{
					"error":   RouteAPITestAlerts + "?type=error",
					"latency": RouteAPITestAlerts + "?type=latency&duration=3000",
				},
			})
		}
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Not Found",
			"path":    r.URL.Path,
			"message": "Endpoint " + r.Method + " " + r.URL.Path + " does not exist",
		})
	}
}
