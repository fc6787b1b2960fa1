package webclient

import (
	"context"
	"errors"
)

var ErrNilRequest = errors.New("request cannot be nil")

// WebClient performs exactly one HTTP exchange per Do call. Implementations
// never follow redirects unless Request.FollowRedirects is set; redirect
// policy belongs to the caller.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
