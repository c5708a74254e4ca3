package config

type Config interface {
	EnvConfig
	OidcConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetFrontendURL() string
	GetEnv() string
	IsProduction() bool
}

type mainConfig struct {
	EnvVars
	Oidc
	Session
	Cors
}

func New() Config {
	return mainConfig{}
}
