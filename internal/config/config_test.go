package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sbrowser/internal/config"
	"github.com/raysh454/sbrowser/internal/testutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sbrowser.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.Equal(t, 120*time.Second, cfg.Client.Timeout.Duration)
	assert.Equal(t, "none", cfg.Cache.Driver)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
[client]
backend = "resty"
user_agent = "firefox"
proxy = "socks5://127.0.0.1:1080"
connect_timeout = "5s"
timeout = "1m30s"
headers = ["Accept-Language: en", "X-Debug: 1"]
max_redirects = 4

[cache]
driver = "sqlite"
path = "/tmp/sb.db"

[logging]
level = "debug"
`)
	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "resty", cfg.Client.Backend)
	assert.Equal(t, "firefox", cfg.Client.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Client.ConnectTimeout.Duration)
	assert.Equal(t, 90*time.Second, cfg.Client.Timeout.Duration)
	assert.Equal(t, []string{"Accept-Language: en", "X-Debug: 1"}, cfg.Client.Headers)
	assert.Equal(t, 4, cfg.Client.MaxRedirects)
	assert.Equal(t, 8, cfg.Client.PoolSize, "unset keys keep their default")
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "/tmp/sb.db", cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_WarnsOnUnknownKeys(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
[client]
user_agnet = "typo"
`)
	logger := &testutil.DummyLogger{}
	_, err := config.Load(path, logger)
	require.NoError(t, err)
	require.Len(t, logger.Warns, 1)
	assert.Contains(t, logger.FieldValues("keys")[0], "client.user_agnet")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, `[client`), nil)
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "[client]\ntimeout = \"soon\"\n"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown backend", func(c *config.Config) { c.Client.Backend = "curl" }},
		{"bad proxy", func(c *config.Config) { c.Client.Proxy = "ftp://p:21" }},
		{"negative timeout", func(c *config.Config) { c.Client.Timeout.Duration = -time.Second }},
		{"negative redirects", func(c *config.Config) { c.Client.MaxRedirects = -1 }},
		{"bad header", func(c *config.Config) { c.Client.Headers = []string{"nocolon"} }},
		{"unknown driver", func(c *config.Config) { c.Cache.Driver = "redis" }},
		{"file without dir", func(c *config.Config) { c.Cache.Driver = "file"; c.Cache.Dir = "" }},
		{"sqlite without path", func(c *config.Config) { c.Cache.Driver = "sqlite"; c.Cache.Path = "" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
