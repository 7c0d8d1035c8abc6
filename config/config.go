// Package config provides configuration types and defaults for the registration service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// EnvPrefix is prepended to every environment override, e.g. REGISTRATION_SERVER_ADDR.
const EnvPrefix = "REGISTRATION"

var envReplacer = strings.NewReplacer(".", "_")

// Config holds all configuration options.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
}

// ServerConfig configures the HTTP harness.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// SessionConfig selects where logged-in students are tracked.
type SessionConfig struct {
	Backend string        `mapstructure:"backend"` // "memory" (default) or "redis"
	TTL     time.Duration `mapstructure:"ttl"`     // 0 = sessions last until logout
}

// RedisConfig holds the connection used by the redis session backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LedgerConfig holds registration behaviour switches.
type LedgerConfig struct {
	AutoLogin bool `mapstructure:"auto_login"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Session: SessionConfig{Backend: BackendMemory},
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			DB:     8,
			Prefix: "session:",
		},
		Ledger: LedgerConfig{AutoLogin: true},
	}
}

// SetDefaults registers Defaults() with v so Unmarshal fills unset keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("ledger.auto_login", d.Ledger.AutoLogin)
}

// Load reads the optional config file and environment overrides into a Config.
// An empty path looks for registration.yaml in the working directory.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("registration")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func Validate(cfg Config) error {
	switch cfg.Session.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid session backend %q: must be %q or %q", cfg.Session.Backend, BackendMemory, BackendRedis)
	}
	if cfg.Session.TTL < 0 {
		return fmt.Errorf("invalid session ttl %s: must not be negative", cfg.Session.TTL)
	}
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	return nil
}
