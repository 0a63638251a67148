// Package config loads matchd's runtime configuration.
package config

import (
	"fmt"
	"os"
)

// Scoring constants exposed for documentation and validator bounds. These
// mirror spec.md §4.5/§6: threshold 75, default K 3.
const (
	DefaultThreshold = 75
	DefaultTopK      = 3
)

type Config struct {
	Version  int
	Server   Server
	Store    Store
	Matching Matching
	Accounts Accounts
}

// Server controls the HTTP surface (internal/apiserver).
type Server struct {
	Addr               string
	ReadTimeoutSec     int
	WriteTimeoutSec    int
	ShutdownTimeoutSec int
}

// Store selects and configures the reference-record collaborator.
type Store struct {
	Driver      string // "memory" or "postgres"
	DSN         string // postgres connection string, ignored for "memory"
	MaxPoolSize int
}

// Matching controls the core pipeline's tunables (spec.md §4.5, §6).
type Matching struct {
	Threshold int // inclusive acceptance threshold, 0-100
	TopK      int // K in spec.md §6, the projected result count
	Workers   int // 0 = auto-detect (NumCPU-1, at least 1)
}

// Accounts controls the optional auth/usage-accounting collaborator
// (spec.md §1: "orthogonal auxiliary concerns").
type Accounts struct {
	Enabled       bool
	JWTSecret     string
	TokenTTLHours int
}

// Load reads configuration from a .matchd.kdl file at path, falling back to
// built-in defaults for anything the file doesn't set. A missing file is not
// an error — it simply yields the defaults, mirroring the teacher's
// LoadKDL which returns (nil, nil) when no KDL file is present.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = ".matchd.kdl"
	}

	if _, err := os.Stat(path); err == nil {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := mergeKDL(cfg, string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: Server{
			Addr:               ":8080",
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 10,
		},
		Store: Store{
			Driver:      "memory",
			MaxPoolSize: 10,
		},
		Matching: Matching{
			Threshold: DefaultThreshold,
			TopK:      DefaultTopK,
			Workers:   0,
		},
		Accounts: Accounts{
			Enabled:       false,
			TokenTTLHours: 24,
		},
	}
}
