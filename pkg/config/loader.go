// Package config loads configuration structs from the environment, which
// is the only configuration source the storefront has; there are no files
// or flags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg using its `env` tags.
//
//	type Config struct {
//	    APIBaseURL   string `env:"API_BASE_URL,required"`
//	    SessionStore string `env:"SESSION_STORE" envDefault:"memory"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
