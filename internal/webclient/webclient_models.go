package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method string
	URL    string
	// Headers are raw "Name: Value" lines, sent in order and without
	// canonicalising the name.
	Headers []string
	Body    []byte

	CookieJar http.CookieJar
	Referer   string
	UserAgent string
	// Proxy is "host:port" or a full proxy URL.
	Proxy string

	ConnectTimeout time.Duration
	Timeout        time.Duration

	FollowRedirects bool
	VerifyTLS       bool
}

type Response struct {
	Request    *Request
	StatusCode int
	Headers    http.Header
	Body       []byte
	// RequestHeaders is the outgoing request line plus headers as sent.
	RequestHeaders string
	// Location is the redirect target reported by the server, if any.
	Location  string
	FetchedAt time.Time
}
