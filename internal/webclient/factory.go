package webclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raysh454/sbrowser/internal/logging"
)

// BackendConstructor builds a WebClient for cfg.
type BackendConstructor func(cfg Config, logger logging.Logger) (WebClient, error)

var (
	mu       sync.RWMutex
	registry = map[Client]BackendConstructor{}
)

// RegisterBackend makes ctor selectable by name. Names are matched after
// Normalize; registering a name twice replaces the earlier constructor.
func RegisterBackend(name string, ctor BackendConstructor) {
	if strings.TrimSpace(name) == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[Client(name).Normalize()] = ctor
}

func lookup(c Client) (BackendConstructor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := registry[c]
	return ctor, ok
}

// NewWebClient builds the backend named by cfg.Client, nethttp when unset.
// The constructor sees the normalized name in cfg.Client.
func NewWebClient(cfg Config, logger logging.Logger) (WebClient, error) {
	cfg.Client = cfg.Client.Normalize()
	if logger == nil {
		logger = logging.Nop{}
	}

	ctor, ok := lookup(cfg.Client)
	if !ok {
		return nil, fmt.Errorf("webclient backend %q not registered: available backends=%v", cfg.Client, ListBackends())
	}

	wc, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("construct webclient backend %q: %w", cfg.Client, err)
	}
	if wc == nil {
		return nil, errors.New("webclient constructor returned nil")
	}
	return wc, nil
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for c := range registry {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}
