// Package config loads modviz settings from an optional TOML file and the
// process environment.
//
// Values are applied in order: built-in defaults, the TOML file, then the
// environment. Command-line flags are applied by the caller on top.
//
//	[server]
//	port = 5000
//	cors_origin = "*"
//
//	[deno]
//	binary = "deno"
//	timeout = "60s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "1h"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/errors"
)

const appName = "modviz"

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendNone   = "none"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Deno   DenoConfig   `toml:"deno"`
	Cache  CacheConfig  `toml:"cache"`
	GitHub GitHubConfig `toml:"github"`
	Render RenderConfig `toml:"render"`
}

type ServerConfig struct {
	Port       int    `toml:"port"`
	CORSOrigin string `toml:"cors_origin"`
}

type DenoConfig struct {
	Binary  string        `toml:"binary"`
	Timeout time.Duration `toml:"timeout"`
}

type CacheConfig struct {
	Backend  string        `toml:"backend"`
	MaxBytes int64         `toml:"max_bytes"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
	Dir      string        `toml:"dir"`

	// Namespace prefixes every key, so deployments can share one Redis.
	Namespace string `toml:"namespace"`
}

type GitHubConfig struct {
	Token string `toml:"token"`
}

type RenderConfig struct {
	Font     string `toml:"font"`
	PageFont string `toml:"page_font"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 5000, CORSOrigin: "*"},
		Deno:   DenoConfig{Binary: "deno", Timeout: 60 * time.Second},
		Cache: CacheConfig{
			Backend:  BackendMemory,
			MaxBytes: 25_000_000,
			TTL:      time.Hour,
		},
		Render: RenderConfig{Font: "Arial", PageFont: "Archivo Narrow"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/modviz/config.toml, falling back
// to ~/.config/modviz/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration. An empty path reads the default location,
// where a missing file is not an error. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv(os.Getenv)
			return cfg, cfg.Validate()
		}
		path = p
	}

	if err := cfg.readFile(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// applyEnv overlays PORT, REDIS_URL and GITHUB_TOKEN.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
}

// Validate checks value ranges and the cache backend name.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidInput, "server.port %d out of range", c.Server.Port)
	}
	if c.Deno.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "deno.timeout must be positive")
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.backend is redis but no redis_url or REDIS_URL is set")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Addr is the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Keyer returns the key layout for the configured namespace.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Namespace+":")
}

// Open builds the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisURL, appName+":")
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return cache.NewMemoryCache(c.MaxBytes), nil
	}
}
