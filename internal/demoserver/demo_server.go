// Package demoserver serves a small site with the things a scraping client
// has to cope with: cookie-backed login with a CSRF token and a captcha
// image, redirect chains, arbitrary status codes and file downloads.
package demoserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/raysh454/sbrowser/internal/logging"
)

const (
	csrfCookie    = "csrf"
	sessionCookie = "sid"
)

// DemoServer is the demo site. Handler exposes it for httptest.
type DemoServer struct {
	cfg    Config
	router chi.Router
	logger logging.Logger

	mu       sync.RWMutex
	sessions map[string]string // session id -> username
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultConfig().MaxRedirects
	}

	s := &DemoServer{
		cfg:      cfg,
		router:   chi.NewRouter(),
		logger:   logger.With(logging.Field{Key: "component", Value: "demoserver"}),
		sessions: make(map[string]string),
	}
	s.routes()
	return s
}

func (s *DemoServer) routes() {
	r := s.router
	r.Use(s.logRequests)

	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginPage)
	r.Post("/session", s.handleSession)
	r.Get("/account", s.handleAccount)
	r.Get("/logout", s.handleLogout)
	r.Get("/captcha.png", s.handleCaptcha)

	r.Get("/redirect/{n}", s.handleRedirect)
	r.Get("/status/{code}", s.handleStatus)
	r.HandleFunc("/echo", s.handleEcho)
	r.Get("/files/{name}", s.handleFile)
}

// Handler returns the root handler.
func (s *DemoServer) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port and blocks.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("demo server starting", logging.Field{Key: "addr", Value: "http://localhost" + addr})
	return http.ListenAndServe(addr, s.router)
}

func (s *DemoServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: "referer", Value: r.Referer()})
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.ExecuteTemplate(w, name, data)
}

func (s *DemoServer) handleHome(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "home", nil)
}

// handleLoginPage issues a fresh CSRF token in both a cookie and the form.
func (s *DemoServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: token, Path: "/", HttpOnly: true})
	render(w, http.StatusOK, "login", struct{ CSRF string }{token})
}

func (s *DemoServer) handleCaptcha(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(captchaPNG)
}

func (s *DemoServer) handleSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, http.StatusBadRequest, "denied", struct{ Reason string }{"malformed form"})
		return
	}

	cookie, err := r.Cookie(csrfCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.PostForm.Get("csrf_token") {
		render(w, http.StatusForbidden, "denied", struct{ Reason string }{"csrf token mismatch"})
		return
	}
	if r.PostForm.Get("username") != s.cfg.Username || r.PostForm.Get("password") != s.cfg.Password {
		render(w, http.StatusForbidden, "denied", struct{ Reason string }{"bad credentials"})
		return
	}

	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = s.cfg.Username
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/account", http.StatusFound)
}

func (s *DemoServer) user(r *http.Request) (string, string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.sessions[cookie.Value]
	return user, cookie.Value, ok
}

func (s *DemoServer) handleAccount(w http.ResponseWriter, r *http.Request) {
	user, sid, ok := s.user(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	render(w, http.StatusOK, "account", struct{ User, Session string }{user, sid})
}

func (s *DemoServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, sid, ok := s.user(r); ok {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRedirect answers /redirect/{n} with a relative redirect to
// /redirect/{n-1}; /redirect/0 is the final page.
func (s *DemoServer) handleRedirect(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 || n > s.cfg.MaxRedirects {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hop count"})
		return
	}
	if n == 0 {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("redirect chain complete"))
		return
	}
	if n%2 == 0 {
		w.Header().Set("Location", "/redirect/"+strconv.Itoa(n-1))
	} else {
		w.Header().Set("Location", "redirect/"+strconv.Itoa(n-1))
	}
	w.WriteHeader(http.StatusFound)
}

func (s *DemoServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 100 || code > 599 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}
	if code >= 300 && code < 400 && r.URL.Query().Get("location") != "" {
		w.Header().Set("Location", r.URL.Query().Get("location"))
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(fmt.Sprintf("status %d", code)))
}

// EchoResponse is the JSON document returned by /echo.
type EchoResponse struct {
	Method  string            `json:"method"`
	Query   map[string]string `json:"query"`
	Form    map[string]string `json:"form"`
	Headers map[string]string `json:"headers"`
	Cookies []string          `json:"cookies"`
}

func (s *DemoServer) handleEcho(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	resp := EchoResponse{
		Method:  r.Method,
		Query:   flatten(r.URL.Query()),
		Form:    flatten(r.PostForm),
		Headers: make(map[string]string, len(r.Header)),
		Cookies: []string{},
	}
	for k, v := range r.Header {
		resp.Headers[k] = strings.Join(v, ", ")
	}
	for _, c := range r.Cookies() {
		resp.Cookies = append(resp.Cookies, c.Name)
	}
	sort.Strings(resp.Cookies)
	writeJSON(w, http.StatusOK, resp)
}

func flatten(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = strings.Join(v, ",")
	}
	return out
}

// FileContent returns the body served for /files/{name}.
func FileContent(name string) []byte {
	return []byte("demo file " + name + "\n")
}

func (s *DemoServer) handleFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(FileContent(name))
}
