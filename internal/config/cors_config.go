package config

import "strings"

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// GetAllowedOrigins allows the frontend origin plus anything listed in
// CORS_ALLOWED_ORIGINS (comma separated)
func (Cors) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	if frontend := GetEnv(frontendVar, ""); frontend != "" && frontend != "/" {
		origins[strings.TrimSuffix(frontend, "/")] = nullValue{}
	}
	for _, origin := range strings.Split(GetEnv("CORS_ALLOWED_ORIGINS", ""), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins[origin] = nullValue{}
		}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
