package demoserver

import "github.com/raysh454/sbrowser/internal/logging"

// Config holds configuration for the demo server.
type Config struct {
	// Port is the port on which the demo server listens.
	Port int

	// Username and Password are the credentials accepted by /session.
	Username string
	Password string

	// MaxRedirects caps /redirect/{n}.
	MaxRedirects int

	Logger logging.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:         9999,
		Username:     "alice",
		Password:     "wonderland",
		MaxRedirects: 50,
	}
}
