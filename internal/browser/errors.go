package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrRedirectLimitExceeded is returned when a redirect chain is longer
	// than the configured maximum.
	ErrRedirectLimitExceeded = errors.New("redirect limit exceeded")
	ErrNilForm               = errors.New("nil form")
	ErrNilWebClient          = errors.New("nil webclient")
)

// TransportError wraps a connection, DNS, TLS or timeout failure reported
// by the webclient.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is returned for responses with a status above 400.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d for %s", e.StatusCode, e.URL)
}
