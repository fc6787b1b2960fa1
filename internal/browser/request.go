package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/urlutil"
	"github.com/raysh454/sbrowser/internal/webclient"
)

const formContentType = "Content-Type: application/x-www-form-urlencoded"

// outcome is the result of a single hop.
type outcome struct {
	url            string
	status         int
	requestHeaders string
	headers        http.Header
	body           []byte
	fromCache      bool
	// next is the absolute redirect target, empty when the chain ends here.
	next string
}

// Get fetches rawURL with params merged into its query string.
func (c *Client) Get(ctx context.Context, rawURL string, params *urlutil.Values) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, rawURL, params)
}

// Post sends params form-encoded in the request body.
func (c *Client) Post(ctx context.Context, rawURL string, params *urlutil.Values) ([]byte, error) {
	return c.Request(ctx, http.MethodPost, rawURL, params)
}

// Request issues method against rawURL, following redirects until a final
// response, and returns its body. The final hop is recorded as the current
// page even when an error is returned.
func (c *Client) Request(ctx context.Context, method, rawURL string, params *urlutil.Values) ([]byte, error) {
	logger := c.logger.With(logging.Field{Key: "request_id", Value: uuid.NewString()})
	return c.request(ctx, method, rawURL, params, false, logger)
}

// request runs the redirect loop. Sub-requests share the cache and cookie
// jar but never touch the current page or the referer.
func (c *Client) request(ctx context.Context, method, rawURL string, params *urlutil.Values, sub bool, logger logging.Logger) ([]byte, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	var (
		out outcome
		err error
	)
	for hop := 0; ; hop++ {
		out, err = c.hop(ctx, method, rawURL, params, hop, logger)
		if err != nil || out.next == "" {
			break
		}
		logger.Debug("following redirect",
			logging.Field{Key: "hop", Value: hop + 1},
			logging.Field{Key: "status", Value: out.status},
			logging.Field{Key: "from", Value: out.url},
			logging.Field{Key: "to", Value: out.next})
		method, rawURL, params = http.MethodGet, out.next, nil
	}

	if !sub {
		c.commit(out, err == nil)
	}
	if err != nil {
		return nil, err
	}
	return out.body, nil
}

// hop performs one exchange and classifies its status.
func (c *Client) hop(ctx context.Context, method, rawURL string, params *urlutil.Values, depth int, logger logging.Logger) (outcome, error) {
	var (
		absURL  string
		body    []byte
		key     string
		headers = c.Headers()
	)

	if method == http.MethodGet {
		merged, err := urlutil.MergeQueryParams(rawURL, params)
		if err != nil {
			return outcome{url: rawURL}, err
		}
		absURL = merged

		if c.cache != nil {
			key = cache.Key(absURL)
			cached, ok, err := c.cache.Load(ctx, key)
			switch {
			case err != nil:
				logger.Warn("cache load failed",
					logging.Field{Key: "url", Value: absURL},
					logging.Field{Key: "error", Value: err})
			case ok:
				logger.Debug("cache hit", logging.Field{Key: "url", Value: absURL})
				return outcome{
					url:       absURL,
					status:    http.StatusOK,
					headers:   http.Header{},
					body:      cached,
					fromCache: true,
				}, nil
			}
		}
	} else {
		absURL = rawURL
		body = []byte(params.Encode())
		if !hasHeader(headers, "Content-Type") {
			headers = append(headers, formContentType)
		}
	}

	req := &webclient.Request{
		Method:          method,
		URL:             absURL,
		Headers:         headers,
		Body:            body,
		CookieJar:       c.jar,
		Referer:         c.referer,
		UserAgent:       c.userAgent,
		Proxy:           c.proxy,
		ConnectTimeout:  c.connectTimeout,
		Timeout:         c.timeout,
		FollowRedirects: false,
		VerifyTLS:       false,
	}

	logger.Debug("sending request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: absURL},
		logging.Field{Key: "hop", Value: depth})

	resp, err := c.wc.Do(ctx, req)
	if err != nil {
		logger.Warn("request failed",
			logging.Field{Key: "url", Value: absURL},
			logging.Field{Key: "error", Value: err})
		return outcome{url: absURL}, &TransportError{URL: absURL, Err: err}
	}

	out := outcome{
		url:            absURL,
		status:         resp.StatusCode,
		requestHeaders: resp.RequestHeaders,
		headers:        resp.Headers,
		body:           resp.Body,
	}

	if depth > c.maxRedirects {
		return out, fmt.Errorf("%w: %d hops ending at %s", ErrRedirectLimitExceeded, depth, absURL)
	}

	location := resp.Location
	if location == "" && resp.Headers != nil {
		location = resp.Headers.Get("Location")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if method == http.MethodGet && c.cache != nil {
			if err := c.cache.Save(ctx, key, resp.Body); err != nil {
				logger.Warn("cache save failed",
					logging.Field{Key: "url", Value: absURL},
					logging.Field{Key: "error", Value: err})
			}
		}
	case resp.StatusCode >= 300 && resp.StatusCode < 400 && location != "":
		base, err := urlutil.BaseOf(absURL)
		if err != nil {
			return out, fmt.Errorf("resolve redirect from %s: %w", absURL, err)
		}
		out.next = urlutil.ResolveRelative(location, base)
	case resp.StatusCode > 400:
		return out, &HTTPError{StatusCode: resp.StatusCode, URL: absURL}
	}

	logger.Debug("response received",
		logging.Field{Key: "url", Value: absURL},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "bytes", Value: len(resp.Body)})
	return out, nil
}

// commit records out as the current page and drops the parsed document.
// The referer only moves on a successful live 200.
func (c *Client) commit(out outcome, ok bool) {
	c.last = Page{
		URL:            out.url,
		StatusCode:     out.status,
		RequestHeaders: out.requestHeaders,
		Headers:        out.headers,
		Body:           out.body,
		FromCache:      out.fromCache,
	}
	c.doc = nil
	c.docParsed = false

	if ok && out.status == http.StatusOK && !out.fromCache {
		c.referer = out.url
	}
}

// DownloadFile fetches rawURL and writes the body to destPath, replacing
// any existing file.
func (c *Client) DownloadFile(ctx context.Context, rawURL, destPath string) error {
	body, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	c.logger.Info("downloaded file",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "path", Value: destPath},
		logging.Field{Key: "bytes", Value: len(body)})
	return nil
}

// IsHTTPStatus reports whether err is an HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == status
}

// hasHeader reports whether lines carry a header called name, ignoring case.
func hasHeader(lines []string, name string) bool {
	for _, line := range lines {
		if n, _, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}
