// Package config is the environment-variable-driven process configuration,
// read once at startup into a Config struct: a plain struct plus
// os.Getenv-with-defaults, deliberately without a file-backed layered
// config framework, since a handful of env vars doesn't justify one.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every environment-driven setting the core and its adapters
// read at startup.
type Config struct {
	// GraphDefaultPath is the canonical graph file loaded at startup.
	GraphDefaultPath string
	// GraphStrict, if true, rejects unknown entity fields at import time
	// instead of silently dropping them.
	GraphStrict bool
	// GraphBackend names the engine backend the factory constructs
	// ("memory" or "sqlite").
	GraphBackend string

	// Env selects the logging profile ("local" or "production").
	Env string
	// LogLevel is the minimum zap level emitted.
	LogLevel string

	// HTTPBindAddr is the REST adapter's listen address.
	HTTPBindAddr string
	// ATPSocketPath is the unix socket path for `serve --atp-socket`.
	ATPSocketPath string
}

// Load reads Config from the process environment, applying defaults for
// every field left unset.
func Load() Config {
	return Config{
		GraphDefaultPath: getenv("GRAPH_DEFAULT_PATH", ""),
		GraphStrict:      getenvBool("GRAPH_STRICT", false),
		GraphBackend:     getenv("GRAPH_BACKEND", "memory"),
		Env:              getenv("ENVIRONMENT", "local"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		HTTPBindAddr:     getenv("HTTP_BIND_ADDR", "127.0.0.1:8080"),
		ATPSocketPath:    getenv("ATP_SOCKET_PATH", "/tmp/hc-enterprise-kg.sock"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvBool treats any of "1", "true", "yes", "on" (case-insensitive) as
// truthy.
func getenvBool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return fallback
}
