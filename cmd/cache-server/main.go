package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/wayfarerhq/places-mcp/internal/cache"
	"github.com/wayfarerhq/places-mcp/internal/config"
)

func main() {
	cfg, err := config.DaemonFromEnv()
	if err != nil {
		panic(err)
	}

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(cfg.Socket), 0o755)
	_ = os.Remove(cfg.Socket)

	l, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		panic(err)
	}
	defer l.Close()
	_ = os.Chmod(cfg.Socket, 0o600)

	store, err := openStore(cfg)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	for {
		conn, err := l.Accept()
		if err != nil {
			continue
		}
		go cache.ServeConn(conn, store)
	}
}

// closableKV lets main defer Close without caring which backend it got.
type closableKV interface {
	cache.KV
	Close() error
}

func openStore(cfg config.Daemon) (closableKV, error) {
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	switch cfg.Backend {
	case "bolt", "":
		return cache.OpenBolt(cfg.DBPath)
	case "sqlite":
		return cache.OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
