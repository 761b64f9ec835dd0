package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"8000" validate:"min=1,max=65535"`
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres"`
	DatabaseFile   string `env:"DATABASE_FILE" envDefault:"database.db"` // sqlite only, ignored when DATABASE_DSN is set
	DatabaseDSN    string `env:"DATABASE_DSN" validate:"required_if=DatabaseDriver postgres"`
	PepperFile     string `env:"PEPPER_FILE" envDefault:"pepper" validate:"required"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@gmail.com" validate:"required,email"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin_password" validate:"required"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin"`
	AdminSurname  string `env:"ADMIN_SURNAME" envDefault:"Admin"`
	AdminAge      int    `env:"ADMIN_AGE" envDefault:"40" validate:"gte=0"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s" validate:"gt=0"`
	StatsInterval       time.Duration `env:"STATS_INTERVAL" envDefault:"1m" validate:"gt=0"`

	// RateLimits reads RATELIMIT_{WRITE,READ,PROBE}_{REQUESTS,WINDOW,BURST}.
	RateLimits httpx.RateLimits
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{RateLimits: httpx.DefaultRateLimits()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config against its validate tags.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return sqlite.FileDSN(c.DatabaseFile)
}

// Bootstrap returns the administrator seeded on startup.
func (c Config) Bootstrap() domain.BootstrapData {
	return domain.BootstrapData{
		AdminEmail:    c.AdminEmail,
		AdminPassword: c.AdminPassword,
		AdminName:     c.AdminName,
		AdminSurname:  c.AdminSurname,
		AdminAge:      c.AdminAge,
	}
}
