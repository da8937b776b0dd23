// Package config layers defaults, an optional yaml file, COLLECTIVE_*
// environment variables and command line flags, in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"collective_dao/internal/store"
	"collective_dao/internal/telemetry"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "COLLECTIVE_"

type Config struct {
	LogLevel  string    `mapstructure:"logLevel" env:"LOG_LEVEL"`
	Store     Store     `mapstructure:"store" envPrefix:"STORE_"`
	Runtime   Runtime   `mapstructure:"runtime" envPrefix:"RUNTIME_"`
	Gateway   Gateway   `mapstructure:"gateway" envPrefix:"GATEWAY_"`
	Telemetry Telemetry `mapstructure:"telemetry" envPrefix:"OTEL_"`
}

type Store struct {
	Backend      string `mapstructure:"backend" env:"BACKEND"`
	SQLitePath   string `mapstructure:"sqlitePath" env:"SQLITE_PATH"`
	PostgresDSN  string `mapstructure:"postgresDSN" env:"POSTGRES_DSN"`
	SnapshotFile string `mapstructure:"snapshotFile" env:"SNAPSHOT_FILE"`
}

type Runtime struct {
	DAOID        string `mapstructure:"daoID" env:"DAO_ID"`
	MarketID     string `mapstructure:"marketID" env:"MARKET_ID"`
	MaxCallDepth int    `mapstructure:"maxCallDepth" env:"MAX_CALL_DEPTH"`
}

// Gateway switches the DAO to the websocket marketplace when URL is set.
type Gateway struct {
	URL     string        `mapstructure:"url" env:"URL"`
	Escrow  string        `mapstructure:"escrow" env:"ESCROW"`
	Timeout time.Duration `mapstructure:"timeout" env:"TIMEOUT"`
}

type Telemetry struct {
	Enabled     bool   `mapstructure:"enabled" env:"ENABLED"`
	Endpoint    string `mapstructure:"endpoint" env:"ENDPOINT"`
	ServiceName string `mapstructure:"serviceName" env:"SERVICE_NAME"`
}

func (s Store) Options() store.Options {
	return store.Options{
		Backend:      s.Backend,
		SQLitePath:   s.SQLitePath,
		PostgresDSN:  s.PostgresDSN,
		SnapshotFile: s.SnapshotFile,
	}
}

func (t Telemetry) Options() telemetry.Options {
	return telemetry.Options{Enabled: t.Enabled, Endpoint: t.Endpoint, ServiceName: t.ServiceName}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.sqlitePath", "collective.db")
	v.SetDefault("runtime.daoID", "dao")
	v.SetDefault("runtime.marketID", "market")
	v.SetDefault("runtime.maxCallDepth", 8)
	v.SetDefault("gateway.timeout", "5s")
	v.SetDefault("telemetry.serviceName", "collective-dao")
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "yaml config file")
	fs.String("log-level", "", "fatal, error, warn, debug, info or trace")
	fs.String("store", "", "state backend: memory, sqlite or postgres")
	fs.String("sqlite-path", "", "sqlite database file")
	fs.String("postgres-dsn", "", "postgres connection string")
	fs.String("snapshot", "", "snapshot file for the memory backend")
	fs.String("gateway-url", "", "websocket marketplace gateway, empty uses the on-host marketplace")
	fs.String("otel-endpoint", "", "OTLP/HTTP trace endpoint, enables tracing")
}

// Load builds the config. fs must have been parsed and may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if fs != nil {
		if err := applyFlags(&cfg, fs); err != nil {
			return nil, err
		}
	}
	return &cfg, cfg.validate()
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		val := f.Value.String()
		switch f.Name {
		case "log-level":
			cfg.LogLevel = val
		case "store":
			cfg.Store.Backend = val
		case "sqlite-path":
			cfg.Store.SQLitePath = val
		case "postgres-dsn":
			cfg.Store.PostgresDSN = val
		case "snapshot":
			cfg.Store.SnapshotFile = val
		case "gateway-url":
			cfg.Gateway.URL = val
		case "otel-endpoint":
			cfg.Telemetry.Endpoint = val
			cfg.Telemetry.Enabled = val != ""
		case "config":
		default:
			err = fmt.Errorf("unhandled flag --%s", f.Name)
		}
	})
	return err
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownBackend, c.Store.Backend)
	}
	if c.Runtime.DAOID == "" || c.Runtime.MarketID == "" {
		return fmt.Errorf("runtime ids must not be empty")
	}
	if c.Runtime.DAOID == c.Runtime.MarketID {
		return fmt.Errorf("dao and market share the id %q", c.Runtime.DAOID)
	}
	if c.Runtime.MaxCallDepth < 2 {
		return fmt.Errorf("max call depth %d leaves no room for the marketplace", c.Runtime.MaxCallDepth)
	}
	return nil
}
