package browser

import (
	"net/http"
	"time"

	"github.com/raysh454/sbrowser/internal/cache"
)

const (
	DefaultTimeout      = 120 * time.Second
	DefaultMaxRedirects = 10
)

// Config holds the construction-time options of a Client. Every field can
// be changed later through the matching setter.
type Config struct {
	UserAgent string
	// Proxy is "host:port" or a full http, https or socks5 URL.
	Proxy          string
	ConnectTimeout time.Duration
	Timeout        time.Duration
	// Headers are "Name: Value" lines sent on every request, in order.
	Headers []string
	// CookieJar defaults to an in-memory jar scoped by the public suffix list.
	CookieJar http.CookieJar
	// Cache is consulted for GET requests; nil disables caching.
	Cache cache.ResponseCache
	// MaxRedirects bounds a redirect chain. Zero means DefaultMaxRedirects.
	MaxRedirects int
}

func (c *Config) applyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultTimeout
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
}
