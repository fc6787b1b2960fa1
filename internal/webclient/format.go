package webclient

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// DefaultUserAgent is sent when neither Request.UserAgent nor a raw header
// line sets one, so every backend presents the same agent.
const DefaultUserAgent = "Go-http-client/1.1"

// applyHeaders copies the raw header lines of req onto h without
// canonicalising names, then sets Referer and User-Agent.
func applyHeaders(h http.Header, req *Request) {
	for _, line := range req.Headers {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h[name] = append(h[name], strings.TrimSpace(value))
	}
	if req.Referer != "" {
		h.Set("Referer", req.Referer)
	}
	switch {
	case req.UserAgent != "":
		h.Set("User-Agent", req.UserAgent)
	case !hasHeader(h, "User-Agent"):
		h.Set("User-Agent", DefaultUserAgent)
	}
}

func hasHeader(h http.Header, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// formatRequestHeaders renders the request line and headers of r the way
// they go over the wire (HTTP/1.1 framing, header names sorted).
func formatRequestHeaders(r *http.Request) string {
	if r == nil {
		return ""
	}
	var out strings.Builder
	out.WriteString(fmt.Sprintf("%s %s HTTP/1.1\r\n", r.Method, r.URL.RequestURI()))

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	out.WriteString(fmt.Sprintf("Host: %s\r\n", host))

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			out.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
		}
	}
	out.WriteString("\r\n")
	return out.String()
}

func checkRedirect(follow bool) func(*http.Request, []*http.Request) error {
	if follow {
		return func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		}
	}
	return func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
}
