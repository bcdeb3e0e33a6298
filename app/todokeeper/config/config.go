// Package config holds the todokeeper application configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/jrazmi/todokeeper/infrastructure/postgresdb"
	"github.com/jrazmi/todokeeper/infrastructure/rediscache"
	"github.com/jrazmi/todokeeper/infrastructure/sqlitedb"
	"github.com/jrazmi/todokeeper/infrastructure/web"
	"github.com/jrazmi/todokeeper/sdk/environment"
	"github.com/jrazmi/todokeeper/sdk/logger"
)

// Prefix namespaces every environment variable, e.g. TODOKEEPER_PORT.
const Prefix = "TODOKEEPER"

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Todokeeper is the overall configuration for the application.
type Todokeeper struct {
	Driver   string `toml:"driver" env:"DB_DRIVER" default:"sqlite"`
	APIRoute string `toml:"api_route" env:"API_ROUTE" default:"/api"`

	// SkipMigrations stops serve from applying pending migrations at startup.
	SkipMigrations bool `toml:"skip_migrations" env:"SKIP_MIGRATIONS"`

	Log      logger.Options     `toml:"log"`
	Server   web.ServerConfig   `toml:"server"`
	Handler  web.HandlerOptions `toml:"handler"`
	SQLite   sqlitedb.Options   `toml:"sqlite"`
	Postgres postgresdb.Options `toml:"postgres"`
	Redis    rediscache.Options `toml:"redis"`
}

// Load reads the TOML file at path, when given, then applies environment
// variables and defaults.
func Load(path string) (Todokeeper, error) {
	var cfg Todokeeper
	if err := environment.Load(Prefix, path, &cfg); err != nil {
		return Todokeeper{}, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Todokeeper{}, err
	}
	return cfg, nil
}

// Validate checks the values defaults cannot guarantee.
func (c *Todokeeper) Validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported driver %q: use %s or %s", c.Driver, DriverSQLite, DriverPostgres)
	}

	if !strings.HasPrefix(c.APIRoute, "/") || c.APIRoute == "/" {
		return fmt.Errorf("api route %q must start with / and name a path", c.APIRoute)
	}
	c.APIRoute = strings.TrimSuffix(c.APIRoute, "/")

	return nil
}
