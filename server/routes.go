package server

import "net/http"

func (s *Server) initRoutes() {
	// CORS preflight for any path; CorsMiddleware answers before the no-op
	// handler runs
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, s.APIMiddleware()...))

	// Auth gateway, mounted under both prefixes
	for _, prefix := range AuthPrefixes {
		s.RegisterRouteHandler("GET "+prefix+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("GET "+prefix+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("GET "+prefix+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
		s.RegisterRouteHandler("GET "+prefix+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware()...))
	}

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIHello, ChainMiddleware(s.HelloHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIInfo, ChainMiddleware(s.InfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPITestAlerts, ChainMiddleware(s.TestAlertsHandler(), s.APIMiddleware()...))

	// Protected routes delegate authorization to the session guard
	s.RegisterRouteHandler("GET "+RouteAPISecureData, ChainMiddleware(s.SecureDataHandler(), s.APIMiddleware(s.RequireSession())...))

	// Everything else is a JSON 404
	s.RegisterRouteHandler("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}
