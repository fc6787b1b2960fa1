// Package browser implements a stateful scraping client: it keeps cookies,
// referer and custom headers across requests, follows redirects itself,
// caches GET responses and extracts forms from the last fetched page.
//
// A Client is not safe for concurrent use.
package browser

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/document"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/webclient"
)

// Page is the outcome of the most recent top-level request.
type Page struct {
	URL            string
	StatusCode     int
	RequestHeaders string
	Headers        http.Header
	Body           []byte
	FromCache      bool
}

// Client is a stateful scraping session. It is not safe for concurrent use.
type Client struct {
	wc     webclient.WebClient
	logger logging.Logger
	cache  cache.ResponseCache

	jar            http.CookieJar
	referer        string
	headers        []string
	userAgent      string
	proxy          string
	connectTimeout time.Duration
	timeout        time.Duration
	maxRedirects   int

	last      Page
	doc       *document.View
	docParsed bool
}

// New returns a Client sending requests through wc.
func New(wc webclient.WebClient, cfg Config, logger logging.Logger) (*Client, error) {
	if wc == nil {
		return nil, ErrNilWebClient
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	cfg.applyDefaults()

	jar := cfg.CookieJar
	if jar == nil {
		var err error
		if jar, err = NewCookieJar(); err != nil {
			return nil, err
		}
	}

	c := &Client{
		wc:             wc,
		logger:         logger.With(logging.Field{Key: "component", Value: "browser"}),
		cache:          cfg.Cache,
		jar:            jar,
		userAgent:      cfg.UserAgent,
		connectTimeout: cfg.ConnectTimeout,
		timeout:        cfg.Timeout,
		maxRedirects:   cfg.MaxRedirects,
	}
	if err := c.SetProxy(cfg.Proxy); err != nil {
		return nil, err
	}
	for _, line := range cfg.Headers {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		c.AddHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return c, nil
}

// NewCookieJar returns an empty in-memory jar that scopes cookies by the
// public suffix list.
func NewCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// AddHeader appends "name: value" to the headers sent with every request.
// Headers with the same name are kept side by side, not replaced.
func (c *Client) AddHeader(name, value string) {
	c.headers = append(c.headers, name+": "+value)
}

// ClearHeaders drops every custom header line.
func (c *Client) ClearHeaders() {
	c.headers = nil
}

// Headers returns a copy of the custom header lines.
func (c *Client) Headers() []string {
	return append([]string(nil), c.headers...)
}

func (c *Client) SetUserAgent(ua string) { c.userAgent = ua }
func (c *Client) UserAgent() string      { return c.userAgent }

// SetProxy validates and stores the proxy address. An empty string
// disables proxying.
func (c *Client) SetProxy(proxy string) error {
	if proxy != "" {
		if _, err := webclient.ParseProxy(proxy); err != nil {
			return err
		}
	}
	c.proxy = proxy
	return nil
}

func (c *Client) Proxy() string { return c.proxy }

func (c *Client) SetConnectTimeout(d time.Duration) { c.connectTimeout = d }
func (c *Client) SetTimeout(d time.Duration)        { c.timeout = d }

func (c *Client) SetCookieJar(jar http.CookieJar) { c.jar = jar }
func (c *Client) CookieJar() http.CookieJar       { return c.jar }

// SetCache replaces the response cache; nil disables caching.
func (c *Client) SetCache(rc cache.ResponseCache) { c.cache = rc }

// Referer is the URL of the last top-level request answered with 200.
func (c *Client) Referer() string { return c.referer }

// Last returns the outcome of the most recent top-level request.
func (c *Client) Last() Page { return c.last }

// Close releases the underlying webclient.
func (c *Client) Close() error {
	return c.wc.Close()
}
