package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns     int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	Version        string        `envconfig:"VERSION" default:"dev"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"12"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	SweepInterval  time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1h"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"true"`

	// First-run bootstrap; set all three or none.
	InitialTenant   string `envconfig:"INITIAL_TENANT"`
	InitialUser     string `envconfig:"INITIAL_USER"`
	InitialPassword string `envconfig:"INITIAL_PASSWORD"`
}

// Bootstrap reports whether the initial tenant and user are configured.
func (c *Config) Bootstrap() bool {
	return c.InitialTenant != "" && c.InitialUser != "" && c.InitialPassword != ""
}

// ErrPartialBootstrap is returned when only some of the bootstrap variables are set.
var ErrPartialBootstrap = errors.New("INITIAL_TENANT, INITIAL_USER and INITIAL_PASSWORD must be set together")

// Load reads configuration from environment variables into a Config struct.
// Variables from a .env file in the working directory are applied first;
// values already present in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	set := 0
	for _, v := range []string{cfg.InitialTenant, cfg.InitialUser, cfg.InitialPassword} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return nil, ErrPartialBootstrap
	}
	return &cfg, nil
}
