// Package config loads sbrowser settings from a TOML file layered over
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/webclient"
)

// Duration is a time.Duration read from strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	Client  ClientConfig  `toml:"client"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
}

type ClientConfig struct {
	// Backend names a registered webclient backend (nethttp, resty).
	Backend        string   `toml:"backend"`
	PoolSize       int      `toml:"pool_size"`
	UserAgent      string   `toml:"user_agent"`
	Proxy          string   `toml:"proxy"`
	ConnectTimeout Duration `toml:"connect_timeout"`
	Timeout        Duration `toml:"timeout"`
	// Headers are "Name: Value" lines sent with every request.
	Headers      []string `toml:"headers"`
	MaxRedirects int      `toml:"max_redirects"`
}

type CacheConfig struct {
	Driver     string `toml:"driver"`
	Dir        string `toml:"dir"`
	Path       string `toml:"path"`
	MaxEntries int    `toml:"max_entries"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	// File enables size-rotated file output; empty logs to stdout.
	File string `toml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Backend:        string(webclient.ClientNetHTTP),
			PoolSize:       8,
			ConnectTimeout: Duration{120 * time.Second},
			Timeout:        Duration{120 * time.Second},
			MaxRedirects:   10,
		},
		Cache: CacheConfig{
			Driver:     string(cache.DriverNone),
			Dir:        ".sbrowser/cache",
			Path:       ".sbrowser/cache.db",
			MaxEntries: 256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over DefaultConfig. An empty path returns the defaults.
// Unknown keys are logged and otherwise ignored.
func Load(path string, logger logging.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		logger.Warn("unknown config keys ignored",
			logging.Field{Key: "path", Value: path},
			logging.Field{Key: "keys", Value: strings.Join(keys, ",")})
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !webclient.Client(c.Client.Backend).Valid() {
		errs = append(errs, fmt.Errorf("client.backend %q: must be one of %v", c.Client.Backend, webclient.ListBackends()))
	}
	if c.Client.Proxy != "" {
		if _, err := webclient.ParseProxy(c.Client.Proxy); err != nil {
			errs = append(errs, fmt.Errorf("client.proxy: %w", err))
		}
	}
	if c.Client.ConnectTimeout.Duration < 0 || c.Client.Timeout.Duration < 0 {
		errs = append(errs, errors.New("client timeouts must not be negative"))
	}
	if c.Client.MaxRedirects < 0 {
		errs = append(errs, errors.New("client.max_redirects must not be negative"))
	}
	for _, h := range c.Client.Headers {
		if name, _, ok := strings.Cut(h, ":"); !ok || strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("client.headers: %q is not a \"Name: Value\" line", h))
		}
	}

	driver := cache.Driver(strings.ToLower(c.Cache.Driver))
	if !driver.Valid() {
		errs = append(errs, fmt.Errorf("cache.driver %q: must be one of none, file, sqlite, memory", c.Cache.Driver))
	}
	if driver == cache.DriverFile && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir is required for the file driver"))
	}
	if driver == cache.DriverSQLite && c.Cache.Path == "" {
		errs = append(errs, errors.New("cache.path is required for the sqlite driver"))
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}
