// Package config loads symtower configuration files.
//
// A configuration file holds the symmetry options and the HTTP server
// settings, in TOML or YAML:
//
//	[symmetry]
//	max_generators = 500
//	detect_subgroups = true
//	usage = 3
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
//	cache_dir = "/var/cache/symtower"
//	cache_ttl = "24h"
//
// Keys that are left out keep their defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultMaxModelBytes  = 8 << 20
	DefaultRequestTimeout = 60 * time.Second
	DefaultCacheTTL       = time.Hour
)

// Config is the content of a configuration file.
type Config struct {
	Symmetry symmetry.Options `toml:"symmetry" yaml:"symmetry"`
	Server   Server           `toml:"server" yaml:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `toml:"addr" yaml:"addr"`
	MaxModelBytes  int64    `toml:"max_model_bytes" yaml:"max_model_bytes"`
	RequestTimeout Duration `toml:"request_timeout" yaml:"request_timeout"`

	// CacheDir enables the response cache when set.
	CacheDir string   `toml:"cache_dir" yaml:"cache_dir"`
	CacheTTL Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Symmetry: symmetry.DefaultOptions(),
		Server: Server{
			Addr:           DefaultAddr,
			MaxModelBytes:  DefaultMaxModelBytes,
			RequestTimeout: Duration(DefaultRequestTimeout),
			CacheTTL:       Duration(DefaultCacheTTL),
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	if err := symerr.ValidateModelPath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, symerr.Wrap(symerr.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, err
	}
	return Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Parse decodes data in the named format ("toml", "yaml" or "yml") over
// the defaults and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, symerr.New(symerr.ErrCodeInvalidFormat, "unsupported config format %q (want toml or yaml)", format)
	}
	if err != nil {
		return Config{}, symerr.Wrap(symerr.ErrCodeInvalidFormat, err, "decode %s config", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the symmetry options and the server settings.
func (c *Config) Validate() error {
	c.Symmetry.SetDefaults()
	if err := c.Symmetry.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxModelBytes < 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "max_model_bytes must be >= 0, got %d", c.Server.MaxModelBytes)
	}
	if c.Server.MaxModelBytes == 0 {
		c.Server.MaxModelBytes = DefaultMaxModelBytes
	}
	if c.Server.RequestTimeout < 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "request_timeout must be >= 0")
	}
	if c.Server.CacheTTL < 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "cache_ttl must be >= 0")
	}
	return nil
}
