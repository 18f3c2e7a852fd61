// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP    HTTP
		Log     Log
		Storage Storage
		PG      PG
		Auth    Auth
		CORS    CORS
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT" envDefault:"8080"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	// Storage selects the repository backend: "memory" or "postgres".
	Storage struct {
		Backend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	}

	PG struct {
		URL     string `env:"PG_URL"`
		PoolMax int32  `env:"PG_POOL_MAX" envDefault:"4"`
	}

	// Auth configures bearer-token verification. Mode "dev" skips JWT
	// verification and trusts the X-Debug-Subject header; anything else
	// verifies RS256 tokens against the JWKS endpoint.
	Auth struct {
		Mode     string `env:"AUTH_MODE" envDefault:"jwt"`
		Issuer   string `env:"JWT_ISSUER"`
		Audience string `env:"JWT_AUDIENCE"`
		JWKSURL  string `env:"JWT_JWKS_URL"`

		ClockSkew time.Duration `env:"JWT_CLOCK_SKEW" envDefault:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.Storage.Backend {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "postgres" && cfg.PG.URL == "" {
		return nil, fmt.Errorf("PG_URL is required when STORAGE_BACKEND=postgres")
	}
	if cfg.Auth.Mode != "dev" {
		if cfg.Auth.Issuer == "" || cfg.Auth.Audience == "" || cfg.Auth.JWKSURL == "" {
			return nil, fmt.Errorf("missing required env vars: JWT_ISSUER, JWT_AUDIENCE, JWT_JWKS_URL")
		}
	}
	return cfg, nil
}
