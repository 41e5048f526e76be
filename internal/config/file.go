package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File holds the placesctl configuration file contents.
type File struct {
	Socket  string `yaml:"socket"`
	Backend string `yaml:"backend"`
	DBPath  string `yaml:"db_path"`
}

// DefaultFile returns a File with the same defaults the daemon uses.
func DefaultFile() *File {
	return &File{
		Socket:  DefaultSocketPath(),
		Backend: "bolt",
		DBPath:  DefaultDBPath("bolt"),
	}
}

// LoadFile reads a YAML config file. A missing file is not an error: the
// defaults are returned so placesctl works out of the box.
func LoadFile(path string) (*File, error) {
	cfg := DefaultFile()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Socket == "" {
		cfg.Socket = DefaultSocketPath()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath(cfg.Backend)
	}
	return cfg, nil
}
