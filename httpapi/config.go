// Package httpapi exposes the three artifact pipelines (drawing, MIDI,
// playback map) over HTTP: a gin engine with env-var-driven CORS, a
// /health endpoint, and a versioned route group, with request-ID
// correlation and Sentry capture for failures.
package httpapi

import (
	"os"
	"strings"
)

// Config is the environment-driven server configuration, read once at
// startup.
type Config struct {
	Port        string
	CORSOrigins []string
	SentryDSN   string
	Environment string
}

// LoadConfig reads configuration from environment variables, with
// development defaults.
func LoadConfig() Config {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "*"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	return Config{
		Port:        port,
		CORSOrigins: strings.Split(origins, ","),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: env,
	}
}
