// Package config loads the daemon configuration from an optional YAML
// file, with environment variables taking precedence over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the thermologd daemon.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply. THERMOLOG_JWT_SECRET must be
// set one way or the other.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Database.Path = "./thermolog.db"
	cfg.Log.Level = "info"

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("THERMOLOG_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("THERMOLOG_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("THERMOLOG_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("THERMOLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret not configured (set THERMOLOG_JWT_SECRET or auth.jwt_secret)")
	}
	return cfg, nil
}
