// Package config loads bpserial settings from an optional TOML file and
// BPSERIAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// envPrefix is prepended to every environment override, e.g.
// BPSERIAL_CACHE_BACKEND.
const envPrefix = "BPSERIAL"

// Config is the resolved configuration.
type Config struct {
	// ProjectSaved is the project's Saved directory. The schema cache and
	// default outputs live under <ProjectSaved>/BlueprintSerializer.
	ProjectSaved string `mapstructure:"project_saved"`
	// Registry is an optional registry snapshot layered over the builtin
	// class table.
	Registry string      `mapstructure:"registry"`
	Pretty   bool        `mapstructure:"pretty"`
	Cache    CacheConfig `mapstructure:"cache"`
}

// CacheConfig selects the schema cache backend.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// OutputDir returns <ProjectSaved>/BlueprintSerializer.
func (c *Config) OutputDir() string {
	return filepath.Join(c.ProjectSaved, "BlueprintSerializer")
}

// DatabasePath is the file used by the sqlite backend.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.OutputDir(), "cache.db")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ProjectSaved: "Saved",
		Pretty:       true,
		Cache:        CacheConfig{Backend: BackendFile, RedisAddr: "localhost:6379"},
	}
}

// Load resolves the configuration. path names an explicit config file; when
// empty, bpserial.toml is looked up in the working directory and in the
// user config directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("project_saved", d.ProjectSaved)
	v.SetDefault("registry", "")
	v.SetDefault("pretty", d.Pretty)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.ttl", "0s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bpserial")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bpserial"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("cache.backend must be one of %s, %s, %s, %s: got %q",
			BackendFile, BackendSQLite, BackendRedis, BackendNone, c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New("cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative: %s", c.Cache.TTL)
	}
	if c.ProjectSaved == "" {
		return errors.New("project_saved must not be empty")
	}
	return nil
}
