// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures the MCP server binary.
type Server struct {
	// Endpoint is the places lookup endpoint, POSTed to with {"textQuery": ...}.
	Endpoint string `env:"PLACES_ENDPOINT,required"`
	// APIKey, when set, is sent as the X-Api-Key header.
	APIKey string `env:"PLACES_API_KEY"`
	// CacheSocket is the unix socket of the cache daemon.
	CacheSocket string `env:"PLACES_CACHE_SOCK"`

	SearchTTL time.Duration `env:"PLACES_SEARCH_TTL" envDefault:"24h"`
	PhotoTTL  time.Duration `env:"PLACES_PHOTO_TTL" envDefault:"720h"`
	PageTTL   time.Duration `env:"PLACES_PAGE_TTL" envDefault:"15m"`
}

// Daemon configures the cache daemon binary.
type Daemon struct {
	Socket string `env:"PLACES_CACHE_SOCK"`
	// Backend selects the store implementation: "bolt" or "sqlite".
	Backend string `env:"PLACES_CACHE_BACKEND" envDefault:"bolt"`
	DBPath  string `env:"PLACES_CACHE_DB"`
}

// ServerFromEnv parses Server configuration from the environment.
func ServerFromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheSocket == "" {
		cfg.CacheSocket = DefaultSocketPath()
	}
	return cfg, nil
}

// DaemonFromEnv parses Daemon configuration from the environment.
func DaemonFromEnv() (Daemon, error) {
	var cfg Daemon
	if err := env.Parse(&cfg); err != nil {
		return Daemon{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Socket == "" {
		cfg.Socket = DefaultSocketPath()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath(cfg.Backend)
	}
	return cfg, nil
}

// DefaultSocketPath is where the cache daemon listens unless overridden.
func DefaultSocketPath() string {
	return filepath.Join(stateDir(), "cache.sock")
}

// DefaultDBPath picks a database filename matching the backend.
func DefaultDBPath(backend string) string {
	name := "cache.bbolt"
	if backend == "sqlite" {
		name = "cache.db"
	}
	return filepath.Join(stateDir(), name)
}

func stateDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "places-mcp")
}
