package config

import (
	"os"
	"time"
)

// Server captures process-level configuration. The contractor core consumes the
// database URL and registry settings at construction time; it never reads the
// environment itself.
type Server struct {
	Addr            string
	Environment     string
	DatabaseURL     string
	RegistryBaseURL string
	RegistryTimeout time.Duration
}

const defaultRegistryTimeout = 10 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WHITELIST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	registryBaseURL := os.Getenv("REGISTRY_BASE_URL")
	if registryBaseURL == "" {
		registryBaseURL = "https://wl-api.mf.gov.pl"
	}

	registryTimeout := defaultRegistryTimeout
	if s := os.Getenv("REGISTRY_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			registryTimeout = d
		}
	}

	return Server{
		Addr:            addr,
		Environment:     env,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RegistryBaseURL: registryBaseURL,
		RegistryTimeout: registryTimeout,
	}
}
