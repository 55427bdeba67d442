package handlers

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vacationrental/config"
	"vacationrental/db"
)

func newTestApp(t *testing.T, opts ...func(*config.Config)) *App {
	t.Helper()
	cfg := &config.Config{
		AppName:    "RentalsTest",
		SessionKey: "test-secret-key-for-handlers-test",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	store, err := db.Open(filepath.Join(t.TempDir(), "test_handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	app, err := NewApp(cfg, store, zap.NewNop())
	require.NoError(t, err)
	return app
}

// testClient is a browser-like client: it keeps cookies and does not follow
// redirects so tests can assert on them.
type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestClient(t *testing.T, app *App) *testClient {
	t.Helper()
	return newTestClientFor(t, app.Handler())
}

func newTestClientFor(t *testing.T, handler http.Handler) *testClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:      t,
		server: server,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *testClient) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.PostForm(c.server.URL+path, form)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *testClient) register(username, password string) *http.Response {
	c.t.Helper()
	resp, _ := c.post("/register", url.Values{"username": {username}, "password": {password}})
	return resp
}

func (c *testClient) login(username, password string) *http.Response {
	c.t.Helper()
	resp, _ := c.post("/login", url.Values{"username": {username}, "password": {password}})
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func propertyForm(title, location, price string) url.Values {
	return url.Values{
		"title":         {title},
		"description":   {"A lovely place to stay"},
		"location":      {location},
		"price":         {price},
		"property_type": {"Apartment"},
		"accommodates":  {"4"},
		"bedrooms":      {"2"},
		"bathrooms":     {"1"},
		"amenities":     {"wifi"},
	}
}

func containsAll(body string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(body, p) {
			return false
		}
	}
	return true
}
