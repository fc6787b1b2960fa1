package browser_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sbrowser/internal/browser"
	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/demoserver"
	"github.com/raysh454/sbrowser/internal/logging"
	"github.com/raysh454/sbrowser/internal/webclient"
)

func demoClient(t *testing.T, backend webclient.Client, cfg browser.Config) (*browser.Client, string) {
	t.Helper()
	ts := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	t.Cleanup(ts.Close)

	wc, err := webclient.NewWebClient(webclient.Config{Client: backend}, logging.Nop{})
	require.NoError(t, err)

	c, err := browser.New(wc, cfg, logging.Nop{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, ts.URL
}

func eachBackend(t *testing.T, fn func(t *testing.T, backend webclient.Client)) {
	for _, b := range []webclient.Client{webclient.ClientNetHTTP, webclient.ClientResty} {
		b := b
		t.Run(string(b), func(t *testing.T) {
			t.Parallel()
			fn(t, b)
		})
	}
}

func TestDemo_LoginFlow(t *testing.T) {
	t.Parallel()
	eachBackend(t, func(t *testing.T, backend webclient.Client) {
		c, base := demoClient(t, backend, browser.Config{UserAgent: browser.UserAgentFirefox35})
		ctx := context.Background()

		_, err := c.Get(ctx, base+"/login", nil)
		require.NoError(t, err)
		assert.Equal(t, base+"/login", c.Referer())

		forms, err := c.Forms(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, forms.Len())

		login, ok := forms.Get("form_1")
		require.True(t, ok)
		assert.Equal(t, base+"/session", login.Action)
		assert.Equal(t, http.MethodPost, login.Method)
		require.Len(t, login.Images, 1)
		png, err := base64.StdEncoding.DecodeString(login.Images[0].Data)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(png), "\x89PNG"))

		newsletter, _ := forms.Get("form_2")
		assert.Equal(t, base+"/login", newsletter.Action)
		assert.Equal(t, "text/plain", newsletter.Enctype)

		login.Fields.Set("username", "alice")
		login.Fields.Set("password", "wonderland")
		body, err := c.SubmitForm(ctx, login)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Hello alice")
		assert.Equal(t, base+"/account", c.Last().URL)
		assert.Equal(t, base+"/account", c.Referer())
		assert.Equal(t, "Hello alice", c.FindFirst("h1").Text())
		assert.Contains(t, c.Last().RequestHeaders, "GET /account HTTP/1.1")
		assert.Contains(t, c.Last().RequestHeaders, "Cookie:")
	})
}

func TestDemo_WrongPasswordIsHTTPError(t *testing.T) {
	t.Parallel()
	c, base := demoClient(t, webclient.ClientNetHTTP, browser.Config{})
	ctx := context.Background()

	_, err := c.Get(ctx, base+"/login", nil)
	require.NoError(t, err)
	f, err := c.Form(ctx, "#login")
	require.NoError(t, err)
	f.Fields.Set("username", "alice")
	f.Fields.Set("password", "wrong")

	_, err = c.SubmitForm(ctx, f)
	assert.True(t, browser.IsHTTPStatus(err, http.StatusForbidden))
	assert.Equal(t, "Access denied", c.FindFirst("h1").Text(), "error page is kept for inspection")
	assert.Equal(t, base+"/login", c.Referer())
}

func TestDemo_RedirectChains(t *testing.T) {
	t.Parallel()
	eachBackend(t, func(t *testing.T, backend webclient.Client) {
		c, base := demoClient(t, backend, browser.Config{})
		ctx := context.Background()

		body, err := c.Get(ctx, base+"/redirect/10", nil)
		require.NoError(t, err)
		assert.Equal(t, "redirect chain complete", string(body))
		assert.Equal(t, base+"/redirect/0", c.Referer())

		_, err = c.Get(ctx, base+"/redirect/11", nil)
		assert.ErrorIs(t, err, browser.ErrRedirectLimitExceeded)
		assert.Equal(t, base+"/redirect/0", c.Referer())
	})
}

func TestDemo_StatusAndEcho(t *testing.T) {
	t.Parallel()
	c, base := demoClient(t, webclient.ClientResty, browser.Config{Headers: []string{"X-Scraper: sbrowser"}})
	ctx := context.Background()

	body, err := c.Get(ctx, base+"/status/400", nil)
	require.NoError(t, err)
	assert.Equal(t, "status 400", string(body))

	_, err = c.Get(ctx, base+"/status/503", nil)
	assert.True(t, browser.IsHTTPStatus(err, http.StatusServiceUnavailable))

	_, err = c.Get(ctx, base+"/", nil)
	require.NoError(t, err)
	f, err := c.Form(ctx, "#search")
	require.NoError(t, err)
	f.Fields.Set("q", "cats & dogs")

	body, err = c.SubmitForm(ctx, f)
	require.NoError(t, err)
	var echo demoserver.EchoResponse
	require.NoError(t, json.Unmarshal(body, &echo))
	assert.Equal(t, http.MethodGet, echo.Method)
	assert.Equal(t, map[string]string{"q": "cats & dogs", "lang": "en"}, echo.Query)
	assert.Equal(t, "sbrowser", echo.Headers["X-Scraper"])
	assert.Equal(t, base+"/", echo.Headers["Referer"])
}

func TestDemo_CacheAndDownload(t *testing.T) {
	t.Parallel()
	fc, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	c, base := demoClient(t, webclient.ClientNetHTTP, browser.Config{Cache: fc})
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, c.DownloadFile(ctx, base+"/files/report.txt", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, demoserver.FileContent("report.txt"), data)

	cached, ok, err := fc.Load(ctx, cache.Key(base+"/files/report.txt"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data, cached)

	_, err = c.Get(ctx, base+"/files/report.txt", nil)
	require.NoError(t, err)
	assert.True(t, c.Last().FromCache)
}
