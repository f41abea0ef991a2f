// Package config loads coarsen's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/coarsen/config.toml (falling back to
// ~/.config/coarsen/config.toml). A missing file is not an error: every
// setting has a default, and command-line flags override file values.
//
//	iterations = 3
//
//	[cache]
//	backend = "redis"
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/coarsen/pkg/cache"
	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "coarsen"

// Defaults.
const (
	DefaultIterations    = 1
	DefaultServerAddr    = ":8080"
	DefaultMongoDatabase = "coarsen"
)

// Config is the decoded configuration file.
type Config struct {
	Iterations int          `toml:"iterations"`
	Cache      CacheConfig  `toml:"cache"`
	Server     ServerConfig `toml:"server"`
	Render     RenderConfig `toml:"render"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, badger, redis, mongo or none
	Dir           string `toml:"dir"`
	TTL           string `toml:"ttl"` // Go duration; empty uses the per-kind default
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures `coarsen serve`.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"` // empty disables CORS
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Detailed bool `toml:"detailed"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Iterations: DefaultIterations,
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			MongoDatabase: DefaultMongoDatabase,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load reads the file at path on top of [Default]. An empty path selects
// [Path]; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if err := errs.ValidateIterations(c.Iterations); err != nil {
		return err
	}
	if _, err := c.Cache.Duration(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendBadger, cache.BackendNone, "":
	case cache.BackendRedis:
		if err := errs.ValidateAddr(c.Cache.RedisAddr); err != nil {
			return fmt.Errorf("cache.redis_addr: %w", err)
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if err := errs.ValidateAddr(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr: %w", err)
	}
	return nil
}

// Duration parses TTL. Zero means "use the per-kind default".
func (c CacheConfig) Duration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.TTL)
	}
	return d, nil
}

// Options converts the cache section to [cache.Options]. An empty Dir
// resolves to [CacheDir], or its "badger" subdirectory for the badger backend.
func (c CacheConfig) Options() cache.Options {
	dir := c.Dir
	if dir == "" {
		if dir, _ = CacheDir(); dir != "" && c.Backend == cache.BackendBadger {
			dir = filepath.Join(dir, "badger")
		}
	}
	return cache.Options{
		Backend:       c.Backend,
		Dir:           dir,
		RedisAddr:     c.RedisAddr,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
	}
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/coarsen/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
