package webclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// transportKey identifies the connection-level settings a transport is
// built for. Anything that only affects a single exchange (headers, jar,
// total timeout) stays out of the key.
type transportKey struct {
	proxy          string
	connectTimeout time.Duration
	verifyTLS      bool
}

// transportPool reuses *http.Transport values (and their idle connections)
// across requests with the same connection settings. Evicted transports
// have their idle connections closed.
type transportPool struct {
	mu    sync.Mutex
	cache *lru.Cache[transportKey, *http.Transport]
}

func newTransportPool(size int) (*transportPool, error) {
	if size <= 0 {
		size = defaultPoolSize
	}
	cache, err := lru.NewWithEvict(size, func(_ transportKey, t *http.Transport) {
		t.CloseIdleConnections()
	})
	if err != nil {
		return nil, fmt.Errorf("create transport pool: %w", err)
	}
	return &transportPool{cache: cache}, nil
}

func (p *transportPool) get(req *Request) (*http.Transport, error) {
	key := transportKey{
		proxy:          strings.TrimSpace(req.Proxy),
		connectTimeout: req.ConnectTimeout,
		verifyTLS:      req.VerifyTLS,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.cache.Get(key); ok {
		return t, nil
	}
	t, err := newTransport(key)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, t)
	return t, nil
}

func (p *transportPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Purge()
}

func newTransport(key transportKey) (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   key.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	t := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: key.connectTimeout,
		// #nosec G402 -- scraping targets often have self-signed certs
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: !key.verifyTLS},
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	if key.proxy != "" {
		proxyURL, err := ParseProxy(key.proxy)
		if err != nil {
			return nil, err
		}
		t.Proxy = http.ProxyURL(proxyURL)
	}
	return t, nil
}

// ParseProxy accepts "host:port" (assumed http) or a full proxy URL.
func ParseProxy(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("invalid proxy %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", raw)
	}
	return u, nil
}
