package browser_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sbrowser/internal/browser"
	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/testutil"
	"github.com/raysh454/sbrowser/internal/urlutil"
)

const loginPage = `<html><body>
<form id="login" action="session" method="post">
  <input type="hidden" name="csrf" value="tok">
  <input type="text" name="user" value="alice">
  <input type="password" name="pass">
  <input type="submit" value="Go">
  <input type="text" name="user" value="bob">
  <img src="/captcha.png">
  <img alt="no source">
</form>
<form id="search" enctype="multipart/form-data">
  <input name="q" value="">
  <textarea name="ignored">x</textarea>
  <select name="ignored2"><option value="1" selected>1</option></select>
</form>
</body></html>`

func loginClient(t *testing.T, rc *testutil.MapCache) (*browser.Client, *testutil.ScriptedWebClient) {
	t.Helper()
	wc := testutil.NewScriptedWebClient().
		HTML(site+"/account/login", loginPage).
		On(site+"/captcha.png", testutil.ScriptedResponse{Status: http.StatusOK, Body: "\x89PNG"})
	cfg := browser.Config{}
	if rc != nil {
		cfg.Cache = rc
	}
	c := newClient(t, wc, cfg)
	_, err := c.Get(context.Background(), site+"/account/login", nil)
	require.NoError(t, err)
	return c, wc
}

func TestForms_KeyedInDocumentOrder(t *testing.T) {
	t.Parallel()
	c, _ := loginClient(t, nil)

	forms, err := c.Forms(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, forms.Len())

	var keys []string
	for pair := forms.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"form_1", "form_2"}, keys)

	login, _ := forms.Get("form_1")
	assert.Equal(t, site+"/session", login.Action, "scheme-less action resolves against the host root")
	assert.Equal(t, http.MethodPost, login.Method)
	assert.Equal(t, browser.DefaultEnctype, login.Enctype)
	assert.Equal(t, []string{"csrf", "user", "pass"}, login.Fields.Keys())
	user, _ := login.Fields.Get("user")
	assert.Equal(t, "bob", user, "last write wins")
	pass, ok := login.Fields.Get("pass")
	assert.True(t, ok)
	assert.Empty(t, pass)

	require.Len(t, login.Images, 1, "img without src is skipped")
	assert.Equal(t, site+"/captcha.png", login.Images[0].Src)
	data, err := base64.StdEncoding.DecodeString(login.Images[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data))

	search, _ := forms.Get("form_2")
	assert.Equal(t, site+"/account/login", search.Action, "missing action submits back to the page")
	assert.Equal(t, http.MethodGet, search.Method)
	assert.Equal(t, "multipart/form-data", search.Enctype)
	assert.Equal(t, []string{"q"}, search.Fields.Keys())
	assert.Empty(t, search.Images)
}

func TestForms_ImageFetchIsSubRequest(t *testing.T) {
	t.Parallel()
	mc := testutil.NewMapCache()
	c, wc := loginClient(t, mc)
	ctx := context.Background()

	_, err := c.Forms(ctx)
	require.NoError(t, err)

	assert.Equal(t, site+"/account/login", c.Referer(), "image fetch leaves the referer alone")
	assert.Equal(t, site+"/account/login", c.Last().URL, "image fetch leaves the current page alone")
	assert.Equal(t, site+"/account/login", wc.LastRequest().Referer)
	assert.Contains(t, mc.Entries, cache.Key(site+"/captcha.png"), "image GETs are cached")

	_, err = c.Forms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, wc.Calls(site+"/captcha.png"), "second extraction is served from cache")
}

func TestForms_ImageErrorPropagates(t *testing.T) {
	t.Parallel()
	wc := testutil.NewScriptedWebClient().
		HTML(site+"/", `<form><img src="gone.png"></form>`).
		On(site+"/gone.png", testutil.ScriptedResponse{Status: http.StatusNotFound})
	c := newClient(t, wc, browser.Config{})
	_, err := c.Get(context.Background(), site+"/", nil)
	require.NoError(t, err)

	_, err = c.Forms(context.Background())
	assert.True(t, browser.IsHTTPStatus(err, http.StatusNotFound))
	assert.Equal(t, site+"/", c.Last().URL)
}

func TestForms_EmptyWithoutDocument(t *testing.T) {
	t.Parallel()
	wc := testutil.NewScriptedWebClient().On(site+"/empty", testutil.ScriptedResponse{Status: http.StatusOK})
	c := newClient(t, wc, browser.Config{})

	forms, err := c.Forms(context.Background())
	require.NoError(t, err)
	assert.Zero(t, forms.Len(), "no request made yet")

	_, err = c.Get(context.Background(), site+"/empty", nil)
	require.NoError(t, err)
	forms, err = c.Forms(context.Background())
	require.NoError(t, err)
	assert.Zero(t, forms.Len(), "empty body")

	f, err := c.Form(context.Background(), "#login")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestForm_BySelector(t *testing.T) {
	t.Parallel()
	c, _ := loginClient(t, nil)

	f, err := c.Form(context.Background(), "form#search")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"q"}, f.Fields.Keys())

	f, err = c.Form(context.Background(), "form#missing")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestSubmitForm_PostStripsImages(t *testing.T) {
	t.Parallel()
	c, wc := loginClient(t, nil)
	wc.HTML(site+"/session", "logged in")

	f, err := c.Form(context.Background(), "#login")
	require.NoError(t, err)
	f.Fields.Set("pass", "hunter2")
	f.Fields.Set("images", "should not be sent")

	body, err := c.SubmitForm(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "logged in", string(body))

	req := wc.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, site+"/session", req.URL)
	assert.Equal(t, "csrf=tok&user=bob&pass=hunter2", string(req.Body))
	assert.Equal(t, site+"/account/login", req.Referer)

	_, ok := f.Fields.Get("images")
	assert.True(t, ok, "the caller's form is not modified")
	assert.Equal(t, site+"/session", c.Referer())
}

func TestSubmitForm_GetUsesQuery(t *testing.T) {
	t.Parallel()
	c, wc := loginClient(t, nil)
	wc.HTML(site+"/account/login?q=golang", "results")

	f, err := c.Form(context.Background(), "#search")
	require.NoError(t, err)
	f.Fields.Set("q", "golang")

	body, err := c.SubmitForm(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "results", string(body))
	assert.Empty(t, wc.LastRequest().Body)

	_, err = c.SubmitForm(context.Background(), nil)
	assert.ErrorIs(t, err, browser.ErrNilForm)
}

func TestForm_JSONKeepsFieldOrder(t *testing.T) {
	t.Parallel()
	f := &browser.Form{
		Action:  site + "/x",
		Method:  http.MethodPost,
		Enctype: browser.DefaultEnctype,
		Fields:  urlutil.NewValues("z", "1", "a", "2"),
		Images:  []browser.FormImage{},
	}
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"http://site.test/x","method":"POST","enctype":"application/x-www-form-urlencoded","fields":{"z":"1","a":"2"},"images":[]}`, string(out))
	assert.Contains(t, string(out), `{"z":"1","a":"2"}`)
}
