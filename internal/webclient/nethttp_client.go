package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/sbrowser/internal/logging"
)

// net/http backed implementation of webclient.
type NetHTTPClient struct {
	pool   *transportPool
	logger logging.Logger
}

func NewNetHTTPClient(cfg Config, logger logging.Logger) (*NetHTTPClient, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	// Create component-scoped logger
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientNetHTTP)})

	pool, err := newTransportPool(cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	componentLogger.Debug("created nethttp webclient",
		logging.Field{Key: "pool_size", Value: cfg.PoolSize})

	return &NetHTTPClient{
		pool:   pool,
		logger: componentLogger,
	}, nil
}

// Do implements the generic request execution using net/http.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	nhc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	applyHeaders(httpReq.Header, req)

	transport, err := nhc.pool.get(req)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Transport:     transport,
		Jar:           req.CookieJar,
		Timeout:       req.Timeout,
		CheckRedirect: checkRedirect(req.FollowRedirects),
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		nhc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		nhc.logger.Warn("failed to read response body",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read body: %w", err)
	}

	sent := resp.Request
	if sent == nil {
		sent = httpReq
	}

	return &Response{
		Request:        req,
		StatusCode:     resp.StatusCode,
		Headers:        resp.Header,
		Body:           body,
		RequestHeaders: formatRequestHeaders(sent),
		Location:       resp.Header.Get("Location"),
		FetchedAt:      time.Now(),
	}, nil
}

func (nhc *NetHTTPClient) Close() error {
	nhc.logger.Debug("closing nethttp webclient")
	nhc.pool.close()
	return nil
}
