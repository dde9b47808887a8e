// Package config holds runtime configuration for the rampup server.
//
// Configuration comes from the environment and is parsed once in the
// composition root; components receive their settings explicitly rather
// than reading ambient process state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the locations the server works with.
type Config struct {
	// DataDir is where the profile database lives.
	// Defaults to ~/.rampup when unset.
	DataDir string `env:"RAMPUP_DATA_DIR"`

	// StepsDir is the directory containing step documents
	// (step-<N>-<slug>.md / .html). A missing directory means no steps
	// are configured — a normal, displayable state.
	StepsDir string `env:"RAMPUP_STEPS_DIR" envDefault:"./onboarding-steps"`
}

// Load parses configuration from the environment and fills in the
// home-relative data directory default.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".rampup")
	}
	return cfg, nil
}
