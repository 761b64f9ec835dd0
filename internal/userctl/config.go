package userctl

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

// Config is resolved from flags, then BACKEND_URL style environment
// variables, then an optional userctl.yaml in the working directory.
type Config struct {
	BackendURL string        `mapstructure:"backend_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
}

func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("userctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.String("backend-url", usersdk.DefaultBaseURL, "base URL of the users service")
	fs.Duration("timeout", 10*time.Second, "per-request timeout")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	return fs
}

// loadConfig parses the global flags and returns the config plus the
// remaining arguments (the subcommand and its flags).
func loadConfig(args []string) (Config, []string, error) {
	fs := globalFlags()
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	v := viper.New()
	v.SetConfigName("userctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, nil, fmt.Errorf("read config: %w", err)
		}
	}

	_ = v.BindEnv("backend_url", "BACKEND_URL")
	_ = v.BindEnv("timeout", "USERCTL_TIMEOUT")
	_ = v.BindEnv("log_level", "USERCTL_LOG_LEVEL")

	_ = v.BindPFlag("backend_url", fs.Lookup("backend-url"))
	_ = v.BindPFlag("timeout", fs.Lookup("timeout"))
	_ = v.BindPFlag("log_level", fs.Lookup("log-level"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BackendURL = normalizeBackendURL(cfg.BackendURL)

	return cfg, fs.Args(), nil
}

// normalizeBackendURL falls back to the default and ensures a trailing slash.
func normalizeBackendURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = usersdk.DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}
