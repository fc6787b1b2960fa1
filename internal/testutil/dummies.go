// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
	Fields []logging.Field
}

func (l *DummyLogger) record(dst *[]string, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
	l.Fields = append(l.Fields, fields...)
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) { l.record(&l.Debugs, msg, fields) }
func (l *DummyLogger) Info(msg string, fields ...logging.Field)  { l.record(&l.Infos, msg, fields) }
func (l *DummyLogger) Warn(msg string, fields ...logging.Field)  { l.record(&l.Warns, msg, fields) }
func (l *DummyLogger) Error(msg string, fields ...logging.Field) { l.record(&l.Errors, msg, fields) }

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// FieldValues returns every recorded value logged under key.
func (l *DummyLogger) FieldValues(key string) []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []any
	for _, f := range l.Fields {
		if f.Key == key {
			out = append(out, f.Value)
		}
	}
	return out
}

// ─── WebClient ─────────────────────────────────────────────────────────

// ErrUnscripted is returned by ScriptedWebClient for URLs without a script.
var ErrUnscripted = errors.New("testutil: no scripted response")

// ScriptedResponse is one canned reply of a ScriptedWebClient.
type ScriptedResponse struct {
	Status   int
	Body     string
	Location string
	Headers  http.Header
	Err      error
}

// ScriptedWebClient implements webclient.WebClient by replaying scripted
// responses per URL. Responses for a URL are served in order; the last one
// repeats once the queue is exhausted.
type ScriptedWebClient struct {
	mu       sync.Mutex
	scripts  map[string][]ScriptedResponse
	served   map[string]int
	Requests []*webclient.Request
	Closed   bool
}

func NewScriptedWebClient() *ScriptedWebClient {
	return &ScriptedWebClient{
		scripts: make(map[string][]ScriptedResponse),
		served:  make(map[string]int),
	}
}

// On appends responses for url and returns the client for chaining.
func (s *ScriptedWebClient) On(url string, responses ...ScriptedResponse) *ScriptedWebClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[url] = append(s.scripts[url], responses...)
	return s
}

// HTML scripts a single 200 text/html response.
func (s *ScriptedWebClient) HTML(url, body string) *ScriptedWebClient {
	return s.On(url, ScriptedResponse{
		Status:  http.StatusOK,
		Body:    body,
		Headers: http.Header{"Content-Type": {"text/html; charset=utf-8"}},
	})
}

// Redirect scripts a single redirect from url to location.
func (s *ScriptedWebClient) Redirect(url string, status int, location string) *ScriptedWebClient {
	return s.On(url, ScriptedResponse{Status: status, Location: location})
}

func (s *ScriptedWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if req == nil {
		return nil, webclient.ErrNilRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	queue := s.scripts[req.URL]
	if len(queue) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w for %s", ErrUnscripted, req.URL)
	}
	idx := s.served[req.URL]
	if idx >= len(queue) {
		idx = len(queue) - 1
	}
	s.served[req.URL]++
	sr := queue[idx]
	s.mu.Unlock()

	if sr.Err != nil {
		return nil, sr.Err
	}

	headers := http.Header{}
	for k, v := range sr.Headers {
		headers[k] = append([]string(nil), v...)
	}
	if sr.Location != "" {
		headers.Set("Location", sr.Location)
	}

	return &webclient.Response{
		Request:        req,
		StatusCode:     sr.Status,
		Headers:        headers,
		Body:           []byte(sr.Body),
		RequestHeaders: renderRequest(req),
		Location:       sr.Location,
		FetchedAt:      time.Now(),
	}, nil
}

func (s *ScriptedWebClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Calls returns how many requests were sent to url.
func (s *ScriptedWebClient) Calls(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.Requests {
		if r.URL == url {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of requests seen.
func (s *ScriptedWebClient) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// LastRequest returns the most recent request, or nil.
func (s *ScriptedWebClient) LastRequest() *webclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return nil
	}
	return s.Requests[len(s.Requests)-1]
}

func renderRequest(req *webclient.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", req.Method, req.URL)
	for _, h := range req.Headers {
		b.WriteString(h + "\r\n")
	}
	if req.Referer != "" {
		b.WriteString("Referer: " + req.Referer + "\r\n")
	}
	if req.UserAgent != "" {
		b.WriteString("User-Agent: " + req.UserAgent + "\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

// ─── Cache ─────────────────────────────────────────────────────────────

// MapCache implements cache.ResponseCache on a map and counts calls.
type MapCache struct {
	mu        sync.Mutex
	Entries   map[string][]byte
	LoadCalls int
	SaveCalls int
	LoadErr   error
	SaveErr   error
}

func NewMapCache() *MapCache {
	return &MapCache{Entries: make(map[string][]byte)}
}

func (m *MapCache) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	v, ok := m.Entries[key]
	return v, ok, nil
}

func (m *MapCache) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Entries[key] = append([]byte{}, value...)
	return nil
}
