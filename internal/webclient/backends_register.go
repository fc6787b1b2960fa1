package webclient

import (
	"github.com/raysh454/sbrowser/internal/logging"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp and resty backends.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger)
	})

	RegisterBackend(string(ClientResty), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewRestyClient(cfg, logger)
	})
}
