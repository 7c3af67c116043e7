// Package config loads forceatlas configuration files.
//
// A configuration file holds the layout and render options used by the
// CLI and the API server, plus the cache and server settings. TOML and
// YAML are supported and selected by file extension:
//
//	# forceatlas.toml
//	[layout]
//	iterations = 500
//	barnes_hut_optimize = true
//	lin_log_mode = true
//	formats = ["svg", "json"]
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Environment variables override the file: FORCEATLAS_CACHE_DIR,
// FORCEATLAS_REDIS_URL and FORCEATLAS_ADDR.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// Environment variables that override file settings.
const (
	EnvCacheDir = "FORCEATLAS_CACHE_DIR"
	EnvRedisURL = "FORCEATLAS_REDIS_URL"
	EnvAddr     = "FORCEATLAS_ADDR"
)

// Defaults for the server section.
const (
	DefaultAddr            = ":8080"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 16 << 20
)

// Config is the root of a configuration file.
type Config struct {
	Layout pipeline.Options `json:"layout" toml:"layout" yaml:"layout"`
	Cache  CacheConfig      `json:"cache" toml:"cache" yaml:"cache"`
	Server ServerConfig     `json:"server" toml:"server" yaml:"server"`
}

// CacheConfig selects the cache backend. RedisURL takes precedence over Dir.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `json:"disabled,omitempty" toml:"disabled" yaml:"disabled"`

	// Dir is the file cache directory. Empty uses the user cache directory.
	Dir string `json:"dir,omitempty" toml:"dir" yaml:"dir"`

	// RedisURL selects the Redis backend (redis:// or rediss://).
	RedisURL string `json:"redis_url,omitempty" toml:"redis_url" yaml:"redis_url"`

	// Prefix namespaces all keys, for sharing one backend between deployments.
	Prefix string `json:"prefix,omitempty" toml:"prefix" yaml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `json:"addr" toml:"addr" yaml:"addr"`
	RequestTimeout  time.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `json:"max_body_bytes" toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Layout: pipeline.DefaultOptions(),
		Server: ServerConfig{
			Addr:            DefaultAddr,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
	}
}

// Load reads the file at path on top of [Default], applies environment
// overrides and validates the result. An empty path skips the file.
// Unknown keys are rejected so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
			}
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks every section and fills remaining server defaults.
func (c *Config) Validate() error {
	// Validate a copy so loggers stay unset until a runner supplies one.
	layout := c.Layout
	if err := layout.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must be >= 0")
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return nil
}
