package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, loaded from environment
// variables. OpenTelemetry settings are handled separately by the otel
// adapter's ConfigFromEnv.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `env:"WASTEBILL_PORT" envDefault:"8888"`

	// DatabasePath is the SQLite database file. ":memory:" is accepted
	// for ephemeral runs.
	DatabasePath string `env:"WASTEBILL_DB_PATH" envDefault:"wastebill.db"`

	// BootstrapAdminToken, when set, seeds a system admin session with
	// this token on startup so a fresh deployment can be administered.
	BootstrapAdminToken string `env:"WASTEBILL_BOOTSTRAP_ADMIN_TOKEN"`

	// BootstrapAdminName is the display name of the bootstrap admin user.
	BootstrapAdminName string `env:"WASTEBILL_BOOTSTRAP_ADMIN_NAME" envDefault:"bootstrap-admin"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
