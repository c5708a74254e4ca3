package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth routes, registered under every prefix in AuthPrefixes
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteLogout   = "/logout"
	RouteMe       = "/me"

	// API routes
	RouteHealth        = "/health"
	RouteAPIHello      = "/api/hello"
	RouteAPIInfo       = "/api/info"
	RouteAPISecureData = "/api/secure-data"
	RouteAPITestAlerts = "/api/test-alerts"
)

// AuthPrefixes are the mount points of the auth gateway. The API prefix is
// kept alongside the bare one for frontend compatibility.
var AuthPrefixes = []string{"/auth", "/api/auth"}
