package config

import (
	"time"

	"github.com/neo4j-contrib/neorest/types"
)

// Config contains connection settings for a Neo4j REST service.
type Config struct {
	// BaseURL is the root of the service's data API, including scheme and port.
	BaseURL string `mapstructure:"base_url"`

	// Username for basic authentication. Empty disables authentication.
	Username string `mapstructure:"username"`

	// Password for basic authentication.
	Password string `mapstructure:"password"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`
}

// DefaultConfig returns a Config with sensible defaults for a local server.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:7474/db/data",
		Timeout:   30 * time.Second,
		UserAgent: "neorest",
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "BaseURL cannot be empty")
	}
	if c.Timeout <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "Timeout must be positive")
	}
	if c.Username == "" && c.Password != "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "Password set without Username")
	}
	return nil
}
