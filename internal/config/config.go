// Package config loads biosctl settings from BIOSCTL_* environment variables.
// Command line flags are applied on top by the caller, which then calls
// Validate once.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// Prefix is prepended to every environment variable name.
const Prefix = "BIOSCTL_"

// Config holds biosctl settings.
type Config struct {
	// Backend selects the vendor tool: hprcu or conrep.
	// Env: BIOSCTL_BACKEND
	Backend string `env:"BACKEND" envDefault:"hprcu"`

	// HPRCU is the hprcu executable.
	// Env: BIOSCTL_HPRCU
	HPRCU string `env:"HPRCU" envDefault:"hprcu"`

	// Advanced passes -a to hprcu.
	// Env: BIOSCTL_HPRCU_ADVANCED
	Advanced bool `env:"HPRCU_ADVANCED" envDefault:"true"`

	// Conrep is the conrep executable.
	// Env: BIOSCTL_CONREP
	Conrep string `env:"CONREP" envDefault:"conrep"`

	// HWDef is the conrep hardware definition file.
	// Env: BIOSCTL_HWDEF
	HWDef string `env:"HWDEF" envDefault:"/opt/hp/hp-scripting-tools/etc/conrep.xml"`

	// Facts includes the resulting settings in apply output.
	// Env: BIOSCTL_FACTS
	Facts bool `env:"FACTS" envDefault:"true"`

	// Check plans changes without writing them.
	// Env: BIOSCTL_CHECK
	Check bool `env:"CHECK"`

	// Timeout bounds a whole run; zero disables it.
	// Env: BIOSCTL_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5m"`

	// LogLevel is a zerolog level name.
	// Env: BIOSCTL_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads Config from the process environment. Values are parsed but not
// validated.
func Load() (Config, error) {
	return load(env.Options{Prefix: Prefix})
}

// LoadFrom reads Config from environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Prefix: Prefix, Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, bcerrors.New(bcerrors.KindUsage, fmt.Errorf("read environment: %w", err))
	}
	return cfg, nil
}

// Validate normalizes and checks values that env parsing cannot. Call it after
// all overrides are applied.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "hprcu", "conrep":
	default:
		return bcerrors.Newf(bcerrors.KindUsage, "unknown backend %q (use hprcu|conrep)", c.Backend)
	}
	if c.Timeout < 0 {
		return bcerrors.Newf(bcerrors.KindUsage, "timeout must not be negative")
	}
	return nil
}
