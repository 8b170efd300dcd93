// Package config loads daemon configuration from flags, environment
// variables, and an optional TOML file, in that order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/tessen/smcmon/internal/errors"
)

const (
	DefaultInterval    = 2
	DefaultCacheTTL    = 5
	DefaultLogLevel    = "info"
	DefaultTelemetryDB = "/var/lib/smcmon/telemetry.db"

	envPrefix    = "SMCMON"
	envConfigKey = "SMCMON_CONFIG"
)

type Config struct {
	Interval    int    `mapstructure:"interval"`
	CacheTTL    int    `mapstructure:"cache_ttl"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
	Debug       bool   `mapstructure:"debug"`
	Verbose     bool   `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", DefaultTelemetryDB)

	// A fresh FlagSet per Load keeps repeated loads (tests, reloads) from
	// tripping duplicate flag registration.
	fs := pflag.NewFlagSet("smcmon", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Int("interval", DefaultInterval, "Seconds between sensor sweeps")
	fs.Int("cache-ttl", DefaultCacheTTL, "Seconds a cached reading stays fresh")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("telemetry", false, "Record readings to the telemetry database")
	fs.String("database", DefaultTelemetryDB, "Telemetry database path")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bind := map[string]string{
		"interval":  "interval",
		"cache_ttl": "cache-ttl",
		"log_level": "log-level",
		"telemetry": "telemetry",
		"database":  "database",
		"debug":     "debug",
		"verbose":   "verbose",
	}
	for key, flagName := range bind {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(envConfigKey); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("smcmon")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig,
				"Failed to read config file: "+err.Error())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.CacheTTL <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.CacheTTL)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry enabled without database path")
	}

	return nil
}
