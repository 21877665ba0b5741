// Package config assembles the single immutable configuration value that
// is threaded explicitly into every component. Environment variables give
// the defaults; command-line flags override them.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the per-invocation run configuration. It is built once in
// main and never mutated afterwards.
type Config struct {
	// Profile is the shared AWS config profile ("" for the default chain).
	Profile string `env:"IDSTORE_PROFILE"`

	// Region overrides the region from the credential chain.
	Region string `env:"IDSTORE_REGION"`

	// IdentityStoreID pins the identity store instead of resolving the
	// first SSO instance.
	IdentityStoreID string `env:"IDSTORE_ID"`

	// Output is the output format: text, json, or table.
	Output string `env:"IDSTORE_OUTPUT" envDefault:"table"`

	// Align disables column alignment for table output when false.
	Align bool `env:"IDSTORE_ALIGN" envDefault:"true"`

	// Debug enables debug logging.
	Debug bool `env:"IDSTORE_DEBUG"`

	// MaxConcurrency is the enrichment concurrency ceiling.
	MaxConcurrency int `env:"IDSTORE_MAX_CONCURRENCY" envDefault:"10"`

	// PageSize is the per-call item cap requested from the server.
	PageSize int `env:"IDSTORE_PAGE_SIZE" envDefault:"50"`
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no command can run with.
func (c Config) Validate() error {
	switch c.Output {
	case "text", "json", "table":
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or table)", c.Output)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be > 0 (got %d)", c.MaxConcurrency)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be > 0 (got %d)", c.PageSize)
	}
	return nil
}
