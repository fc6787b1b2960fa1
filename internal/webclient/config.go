package webclient

import "strings"

// Client names a registered backend.
type Client string

const (
	ClientNetHTTP Client = "nethttp"
	ClientResty   Client = "resty"
)

// Normalize trims and lower-cases the name. An empty name selects nethttp.
func (c Client) Normalize() Client {
	n := Client(strings.ToLower(strings.TrimSpace(string(c))))
	if n == "" {
		return ClientNetHTTP
	}
	return n
}

// Valid reports whether a backend is registered under the normalized name.
func (c Client) Valid() bool {
	_, ok := lookup(c.Normalize())
	return ok
}

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client
	// PoolSize bounds how many distinct transports (one per proxy /
	// connect-timeout / TLS combination) are kept alive. Defaults to 8.
	PoolSize int
}

const defaultPoolSize = 8
