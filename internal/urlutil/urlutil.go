// Package urlutil builds request URLs and resolves the relative URLs found in
// Location headers and HTML attributes. It keeps no package-level state;
// every input is a parameter.
package urlutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var ErrNotAbsolute = errors.New("url is not absolute")

// Base is the scheme and host relative references are resolved against.
type Base struct {
	Scheme string
	Host   string // may include a port
}

// BaseOf extracts the Base of an absolute URL. The scheme and host are
// lower-cased and the host is converted to its ASCII (punycode) form.
func BaseOf(raw string) (Base, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Base{}, fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Base{}, fmt.Errorf("%w: %s", ErrNotAbsolute, raw)
	}

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	}
	return Base{Scheme: strings.ToLower(u.Scheme), Host: host}, nil
}

// MergeQueryParams appends params to the query string of rawURL, keeping
// any parameters already present. The result never carries a doubled or
// trailing '?' and never a trailing '&'.
//
// Examples:
//
//	MergeQueryParams("http://a.com/p", a=1,b=2)     → "http://a.com/p?a=1&b=2"
//	MergeQueryParams("http://a.com/p?x=0", a=1)     → "http://a.com/p?x=0&a=1"
//	MergeQueryParams("http://a.com/p?", <empty>)    → "http://a.com/p"
func MergeQueryParams(rawURL string, params *Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", rawURL, err)
	}

	query := strings.Trim(u.RawQuery, "&")
	if extra := params.Encode(); extra != "" {
		if query != "" {
			query += "&"
		}
		query += extra
	}
	u.RawQuery = query
	u.ForceQuery = false

	return u.String(), nil
}

// ResolveRelative makes ref absolute against base:
//
//	"//cdn.example.com/x" → base.Scheme + ":" + ref
//	"/path"               → base.Scheme + "://" + base.Host + ref
//	"path" (no scheme)    → base.Scheme + "://" + base.Host + "/" + ref
//	"https://other/x"     → unchanged
//
// Scheme-less references resolve against the host root, not the directory
// of the current page.
func ResolveRelative(ref string, base Base) string {
	switch {
	case strings.HasPrefix(ref, "//"):
		return base.Scheme + ":" + ref
	case strings.HasPrefix(ref, "/"):
		return base.Scheme + "://" + base.Host + ref
	case !hasScheme(ref):
		return base.Scheme + "://" + base.Host + "/" + ref
	default:
		return ref
	}
}

// hasScheme reports whether ref starts with "scheme:" per RFC 3986.
func hasScheme(ref string) bool {
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}
