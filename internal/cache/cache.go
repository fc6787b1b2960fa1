// Package cache stores fetched response bodies keyed by request URL.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/raysh454/sbrowser/internal/logging"
)

// ErrInvalidKey is returned when a key cannot address an entry.
var ErrInvalidKey = errors.New("cache: invalid key")

// ResponseCache is a key to blob store. Load reports a miss with ok=false
// and a nil error.
type ResponseCache interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// Key returns the cache key for an absolute URL: the SHA-1 hex digest.
func Key(absURL string) string {
	sum := sha1.Sum([]byte(absURL))
	return hex.EncodeToString(sum[:])
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// New builds the cache selected by cfg.Driver. DriverNone yields a nil
// ResponseCache and a nil closer, which disables caching.
func New(cfg Config, logger logging.Logger) (ResponseCache, func() error, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With(logging.Field{Key: "component", Value: "cache"})

	switch cfg.Driver {
	case DriverNone, "":
		return nil, func() error { return nil }, nil
	case DriverFile:
		fc, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("file cache ready", logging.Field{Key: "dir", Value: cfg.Dir})
		return fc, func() error { return nil }, nil
	case DriverSQLite:
		sc, err := NewSQLiteCache(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite cache ready", logging.Field{Key: "path", Value: cfg.Path})
		return sc, sc.Close, nil
	case DriverMemory:
		mc, err := NewMemoryCache(cfg.MaxEntries)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("memory cache ready", logging.Field{Key: "max_entries", Value: cfg.MaxEntries})
		return mc, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
