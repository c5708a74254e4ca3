package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	frontendVar    = "FRONTEND_URL"
	environmentVar = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3000")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "OIDC Gateway")
}

// GetFrontendURL returns the post-login / post-logout redirect destination
func (EnvVars) GetFrontendURL() string {
	return GetEnv(frontendVar, "/")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(environmentVar)
	if env == "" {
		return "DEV"
	}
	return env
}

// IsProduction reports whether the server runs with production hardening
// (secure-only session cookies, no error detail in responses)
func (e EnvVars) IsProduction() bool {
	return strings.EqualFold(e.GetEnv(), "production")
}

func GetEnv(envVar, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}
