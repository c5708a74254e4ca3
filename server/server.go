package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-gateway/idp"
	"github.com/jrsteele09/go-oidc-gateway/internal/config"
	"github.com/jrsteele09/go-oidc-gateway/sessions"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	idp       *idp.Client
	sessions  sessions.Repo
	cookies   *CookieCodec
	startedAt time.Time
}

func New(config config.Config, idpClient *idp.Client, sessionRepo sessions.Repo) (*Server, error) {
	cookies, err := NewCookieCodec(config.GetSessionSecret(), config.GetSessionMaxAge(), config.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create cookie codec: %w", err)
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		idp:       idpClient,
		sessions:  sessionRepo,
		cookies:   cookies,
		startedAt: time.Now(),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
