// Package app wires configuration, logging, cache, transport and the
// browser client into a single runtime.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raysh454/sbrowser/internal/browser"
	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/config"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/webclient"
)

// Application holds the shared components built from a Config. Close
// releases them in reverse construction order.
type Application struct {
	Config  *config.Config
	Logger  logging.Logger
	Cache   cache.ResponseCache
	Browser *browser.Client

	closers []func() error
}

// New builds an Application. When logger is nil one is created from
// cfg.Logging, writing JSON lines to stderr or to a rotated file.
func New(cfg *config.Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Application{Config: cfg}

	if logger == nil {
		l, closer, err := newLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
		logger = l
		if closer != nil {
			a.closers = append(a.closers, closer.Close)
		}
	}
	a.Logger = logger

	rc, closeCache, err := cache.New(CacheConfig(cfg), logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}
	a.Cache = rc
	a.closers = append(a.closers, closeCache)

	wc, err := webclient.NewWebClient(WebClientConfig(cfg), logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create webclient: %w", err)
	}

	bc := BrowserConfig(cfg)
	bc.Cache = rc
	client, err := browser.New(wc, bc, logger)
	if err != nil {
		wc.Close()
		a.Close()
		return nil, fmt.Errorf("create browser: %w", err)
	}
	a.Browser = client
	a.closers = append(a.closers, client.Close)

	logger.Info("application ready",
		logging.Field{Key: "backend", Value: cfg.Client.Backend},
		logging.Field{Key: "cache", Value: cfg.Cache.Driver})
	return a, nil
}

// Close releases every component; it is safe to call more than once.
func (a *Application) Close() error {
	if a == nil {
		return errors.New("application is nil")
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newLogger(cfg config.LoggingConfig) (logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.File != "" {
		l, closer := logging.NewFileLogger(cfg.File, "sbrowser", level)
		return l, closer, nil
	}
	return logging.NewJSONLogger(os.Stderr, "sbrowser", level), nil, nil
}

// WebClientConfig maps the [client] section onto the transport settings.
func WebClientConfig(cfg *config.Config) webclient.Config {
	return webclient.Config{
		Client:   webclient.Client(cfg.Client.Backend).Normalize(),
		PoolSize: cfg.Client.PoolSize,
	}
}

// CacheConfig maps the [cache] section.
func CacheConfig(cfg *config.Config) cache.Config {
	return cache.Config{
		Driver:     cache.Driver(strings.ToLower(cfg.Cache.Driver)),
		Dir:        cfg.Cache.Dir,
		Path:       cfg.Cache.Path,
		MaxEntries: cfg.Cache.MaxEntries,
	}
}

// BrowserConfig maps the [client] section onto browser options. The cache
// is attached separately.
func BrowserConfig(cfg *config.Config) browser.Config {
	return browser.Config{
		UserAgent:      browser.LookupUserAgent(cfg.Client.UserAgent),
		Proxy:          cfg.Client.Proxy,
		ConnectTimeout: cfg.Client.ConnectTimeout.Duration,
		Timeout:        cfg.Client.Timeout.Duration,
		Headers:        append([]string(nil), cfg.Client.Headers...),
		MaxRedirects:   cfg.Client.MaxRedirects,
	}
}
