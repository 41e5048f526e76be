package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PLACES_ENDPOINT", "https://proxy.example.com/places/search")
	t.Setenv("PLACES_API_KEY", "secret")
	t.Setenv("PLACES_CACHE_SOCK", "/tmp/places.sock")
	t.Setenv("PLACES_SEARCH_TTL", "1h")

	cfg, err := ServerFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != "https://proxy.example.com/places/search" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.CacheSocket != "/tmp/places.sock" {
		t.Errorf("socket = %q", cfg.CacheSocket)
	}
	if cfg.SearchTTL != time.Hour {
		t.Errorf("search ttl = %v", cfg.SearchTTL)
	}
	// Untouched TTLs keep their defaults.
	if cfg.PhotoTTL != 720*time.Hour {
		t.Errorf("photo ttl = %v", cfg.PhotoTTL)
	}
	if cfg.PageTTL != 15*time.Minute {
		t.Errorf("page ttl = %v", cfg.PageTTL)
	}
}

func TestServerFromEnvRequiresEndpoint(t *testing.T) {
	t.Setenv("PLACES_ENDPOINT", "")
	os.Unsetenv("PLACES_ENDPOINT")
	if _, err := ServerFromEnv(); err == nil {
		t.Fatal("expected error when PLACES_ENDPOINT is unset")
	}
}

func TestDaemonFromEnvDefaults(t *testing.T) {
	t.Setenv("PLACES_CACHE_SOCK", "")
	os.Unsetenv("PLACES_CACHE_SOCK")
	t.Setenv("PLACES_CACHE_BACKEND", "")
	os.Unsetenv("PLACES_CACHE_BACKEND")
	t.Setenv("PLACES_CACHE_DB", "")
	os.Unsetenv("PLACES_CACHE_DB")

	cfg, err := DaemonFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "bolt" {
		t.Errorf("backend = %q, want bolt", cfg.Backend)
	}
	if cfg.Socket == "" || cfg.DBPath == "" {
		t.Errorf("expected computed defaults, got %+v", cfg)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Socket != DefaultSocketPath() {
		t.Errorf("socket = %q", cfg.Socket)
	}
	if cfg.Backend != "bolt" {
		t.Errorf("backend = %q", cfg.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placesctl.yaml")
	data := "socket: /run/places/cache.sock\nbackend: sqlite\ndb_path: /var/lib/places/cache.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Socket != "/run/places/cache.sock" {
		t.Errorf("socket = %q", cfg.Socket)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.DBPath != "/var/lib/places/cache.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
}
