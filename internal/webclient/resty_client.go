package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raysh454/sbrowser/internal/logging"
)

// RestyClient is a go-resty backed implementation of webclient. It shares
// the transport pool with the nethttp backend and builds a resty client
// per exchange so per-request jar, timeout and redirect settings never
// leak between requests.
type RestyClient struct {
	pool   *transportPool
	logger logging.Logger
}

func NewRestyClient(cfg Config, logger logging.Logger) (*RestyClient, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientResty)})

	pool, err := newTransportPool(cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	componentLogger.Debug("created resty webclient",
		logging.Field{Key: "pool_size", Value: cfg.PoolSize})

	return &RestyClient{pool: pool, logger: componentLogger}, nil
}

func (rc *RestyClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	transport, err := rc.pool.get(req)
	if err != nil {
		return nil, err
	}

	client := resty.NewWithClient(&http.Client{Transport: transport, Jar: req.CookieJar})
	client.SetLogger(restyLogger{rc.logger})
	client.SetTimeout(req.Timeout)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(checkRedirect(req.FollowRedirects)))

	r := client.R().SetContext(ctx)
	applyHeaders(r.Header, req)
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	rc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	res, err := r.Execute(method, req.URL)
	if err != nil {
		rc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("resty execute: %w", err)
	}

	return &Response{
		Request:        req,
		StatusCode:     res.StatusCode(),
		Headers:        res.Header(),
		Body:           res.Body(),
		RequestHeaders: formatRequestHeaders(res.Request.RawRequest),
		Location:       res.Header().Get("Location"),
		FetchedAt:      time.Now(),
	}, nil
}

func (rc *RestyClient) Close() error {
	rc.logger.Debug("closing resty webclient")
	rc.pool.close()
	return nil
}

// restyLogger routes resty's printf-style logging into logging.Logger.
type restyLogger struct {
	logger logging.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
