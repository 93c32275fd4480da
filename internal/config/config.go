package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	DatabaseURL         string
	ServerPort          string
	FrontendURL         string
	RedisURL            string
	RateLimit           string
	IdentityIssuer      string
	IdentityJWKSURL     string
	IdentityClientID    string
	IdentityRedirectURI string
	EnableHSTS          bool
	ServerDebugMode     bool
	OTELEnabled         bool
	OTELEndpoint        string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RateLimit:           getEnv("RATE_LIMIT", "10-S"),
		IdentityIssuer:      getEnv("IDENTITY_ISSUER", ""),
		IdentityJWKSURL:     getEnv("IDENTITY_JWKS_URL", ""),
		IdentityClientID:    getEnv("IDENTITY_CLIENT_ID", ""),
		IdentityRedirectURI: getEnv("IDENTITY_REDIRECT_URI", ""),
		EnableHSTS:          getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode:     getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:         getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IdentityIssuer == "" || cfg.IdentityJWKSURL == "" {
		return nil, fmt.Errorf("IDENTITY_ISSUER and IDENTITY_JWKS_URL are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
