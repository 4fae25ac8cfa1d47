package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethcocoders/techtonicml-desktop/internal/bridge"
	"github.com/ethcocoders/techtonicml-desktop/internal/config"
)

// upstream is a stand-in for the remote website.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.Redirect(w, r, "http://"+r.Host+"/dashboard?x=1", http.StatusFound)
		default:
			w.Header().Set("X-Upstream-Host", r.Host)
			w.Header().Set("X-Upstream-Cookie", r.Header.Get("Cookie"))
			io.WriteString(w, "site:"+r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRegistry(t *testing.T) *bridge.Registry {
	t.Helper()
	r := bridge.NewRegistry()
	r.MustRegister(bridge.Method{
		Name:   "shout",
		Params: []bridge.Param{{Name: "text", Type: bridge.TypeString}},
		Handler: func(a bridge.Args) bridge.Result {
			return bridge.OK(strings.ToUpper(a.String("text")))
		},
	})
	return r
}

func testServer(t *testing.T, website string, splashMS int) (*httptest.Server, *Hub) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewUnstartedServer(mux)
	port := srv.Listener.Addr().(*net.TCPAddr).Port
	hosts := LocalHosts("127.0.0.1", port)

	cfg := &config.Config{WebsiteURL: website, SplashMS: splashMS}
	hub := NewHub(hosts)
	h, err := New(cfg, testRegistry(t), hub, "1.0.0", hosts)
	require.NoError(t, err)
	h.RegisterRoutes(mux)

	srv.Start()
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestNewSiteRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "ftp://example.com", "/relative"} {
		_, err := NewSite(&config.Config{WebsiteURL: u}, "1.0.0")
		assert.Error(t, err, u)
	}
}

func TestSplashThenProxy(t *testing.T) {
	site := upstream(t)
	srv, _ := testServer(t, site.URL, 3000)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, config.AppName)
	assert.Contains(t, body, "3000")

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == splashCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "splash should set the session cookie")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.AddCookie(cookie)
	req.AddCookie(&http.Cookie{Name: "site_session", Value: "abc"})
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, "site:/", body)
	assert.Equal(t, strings.TrimPrefix(site.URL, "http://"), resp.Header.Get("X-Upstream-Host"))
	assert.Equal(t, "site_session=abc", resp.Header.Get("X-Upstream-Cookie"))
}

func TestSplashOnlyAtRoot(t *testing.T) {
	site := upstream(t)
	srv, _ := testServer(t, site.URL, 3000)

	resp, err := http.Get(srv.URL + "/courses/1")
	require.NoError(t, err)
	assert.Equal(t, "site:/courses/1", readBody(t, resp))
}

func TestSplashDisabled(t *testing.T) {
	site := upstream(t)
	srv, _ := testServer(t, site.URL, 0)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, "site:/", readBody(t, resp))
}

func TestProxyRewritesRedirects(t *testing.T) {
	site := upstream(t)
	srv, _ := testServer(t, site.URL, 0)

	resp, err := noRedirectClient().Get(srv.URL + "/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard?x=1", resp.Header.Get("Location"))
}

func TestProxyOffline(t *testing.T) {
	site := upstream(t)
	dead := site.URL
	site.Close()

	srv, _ := testServer(t, dead, 0)
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "Retry")
}

func TestListMethods(t *testing.T) {
	srv, _ := testServer(t, "https://example.com", 0)

	resp, err := http.Get(srv.URL + "/api/bridge")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	var out struct {
		Methods []bridge.MethodInfo `json:"methods"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Methods, 1)
	assert.Equal(t, "shout", out.Methods[0].Name)
}

func TestCallMethod(t *testing.T) {
	srv, _ := testServer(t, "https://example.com", 0)

	tests := []struct {
		name       string
		method     string
		body       string
		origin     string
		wantStatus int
		want       string
	}{
		{"success", "shout", `["hi"]`, "", http.StatusOK, `{"success":true,"data":"HI"}`},
		{"same origin", "shout", `["hi"]`, srv.URL, http.StatusOK, `{"success":true,"data":"HI"}`},
		{"bridge failure", "shout", `[]`, "", http.StatusOK, `{"success":false,"error":"shout: missing required argument \"text\""}`},
		{"empty body", "shout", ``, "", http.StatusOK, `{"success":false,"error":"shout: missing required argument \"text\""}`},
		{"unknown method", "nope", `[]`, "", http.StatusOK, `{"success":false,"error":"Unknown method: nope"}`},
		{"cross origin", "shout", `["hi"]`, "https://evil.example", http.StatusForbidden, `{"success":false,"error":"request from a foreign host or origin rejected"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/bridge/"+tt.method, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.want, readBody(t, resp))
		})
	}
}

func TestBridgeRejectsForeignHost(t *testing.T) {
	srv, _ := testServer(t, "https://example.com", 0)
	port := strings.TrimPrefix(srv.URL, "http://127.0.0.1")

	tests := []struct {
		name   string
		host   string
		origin string
		want   int
	}{
		{"rebound name with matching origin", "attacker.example" + port, "http://attacker.example" + port, http.StatusForbidden},
		{"rebound name without origin", "attacker.example" + port, "", http.StatusForbidden},
		{"loopback on another port", "127.0.0.1:1", "", http.StatusForbidden},
		{"localhost", "localhost" + port, "http://localhost" + port, http.StatusOK},
		{"ipv6 loopback", "[::1]" + port, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/bridge/shout", strings.NewReader(`["secret"]`))
			require.NoError(t, err)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body := readBody(t, resp)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusForbidden {
				assert.NotContains(t, body, "SECRET")
			}


			req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/bridge", nil)
			require.NoError(t, err)
			req.Host = tt.host
			resp, err = http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode, "method list")
		})
	}
}

func TestEventsRejectsForeignHost(t *testing.T) {
	srv, hub := testServer(t, "https://example.com", 0)
	port := strings.TrimPrefix(srv.URL, "http://127.0.0.1")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"

	header := http.Header{
		"Host":   []string{"attacker.example" + port},
		"Origin": []string{"http://attacker.example" + port},
	}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.Count())
}

func TestLocalHosts(t *testing.T) {
	assert.Equal(t,
		[]string{"localhost:8080", "127.0.0.1:8080", "[::1]:8080"},
		LocalHosts("127.0.0.1", 8080))
	assert.Equal(t,
		[]string{"localhost:8080", "127.0.0.1:8080", "[::1]:8080"},
		LocalHosts("0.0.0.0", 8080))
	assert.Equal(t,
		[]string{"localhost:9000", "127.0.0.1:9000", "[::1]:9000", "192.168.1.5:9000"},
		LocalHosts("192.168.1.5", 9000))
}

func TestCallMethodBadBody(t *testing.T) {
	srv, _ := testServer(t, "https://example.com", 0)

	resp, err := http.Post(srv.URL+"/api/bridge/shout", "application/json", strings.NewReader(`{"text":"hi"}`))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "invalid request body")
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://127.0.0.1:8080", true},
		{"HTTP://127.0.0.1:8080", true},
		{"http://127.0.0.1:9999", false},
		{"https://evil.example", false},
		{"::bad", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "http://127.0.0.1:8080/api/bridge/x", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, sameOrigin(r), tt.origin)
	}
}

func TestHostGuard(t *testing.T) {
	g := newHostGuard([]string{"localhost:8080", "127.0.0.1:8080"})
	tests := []struct {
		host   string
		origin string
		want   bool
	}{
		{"127.0.0.1:8080", "", true},
		{"LOCALHOST:8080", "http://localhost:8080", true},
		{"localhost:8080", "http://127.0.0.1:8080", false},
		{"rebind.attacker.example:8080", "http://rebind.attacker.example:8080", false},
		{"localhost", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/api/bridge/x", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, g.allow(r), "%s from %q", tt.host, tt.origin)
	}
}

func TestEventsWebsocket(t *testing.T) {
	srv, hub := testServer(t, "https://example.com", 0)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Emit("notification", map[string]string{"title": "Saved", "message": "ok"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"notification","payload":{"title":"Saved","message":"ok"}}`, string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestEventsRejectsCrossOrigin(t *testing.T) {
	srv, hub := testServer(t, "https://example.com", 0)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.Count())
}

// pageUpstream serves an HTML page everywhere except /data.json.
func pageUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data.json" {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"ok":true}`)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Upstream-Encoding", r.Header.Get("Accept-Encoding"))
		io.WriteString(w, `<!DOCTYPE html><html><head><title>`+r.URL.Path+`</title></head><body>page</body></html>`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func siteServer(t *testing.T, website string, splashMS int, opts ...SiteOption) *httptest.Server {
	t.Helper()
	site, err := NewSite(&config.Config{WebsiteURL: website, SplashMS: splashMS}, "1.0.0", opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)
	return srv
}

func TestRuntimeScriptsOnProxiedPages(t *testing.T) {
	site := pageUpstream(t)
	srv := siteServer(t, site.URL, 0, WithRuntimeScripts())

	tests := []struct {
		path   string
		inject bool
	}{
		{"/a/b", true},
		{"/courses/42/lesson", true},
		{"/a/b/", false},
		{"/", false},
		{"/docs/index.html", false},
		{"/data.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			require.NoError(t, err)
			req.Header.Set("Accept-Encoding", "br")
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body := readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			if tt.inject {
				assert.Contains(t, body, `<head><script src="/wails/ipc.js"></script><script src="/wails/runtime.js"></script><title>`)
				assert.Equal(t, int64(len(body)), resp.ContentLength)
				assert.NotEqual(t, "br", resp.Header.Get("X-Upstream-Encoding"))
			} else {
				assert.NotContains(t, body, "/wails/runtime.js")
			}
		})
	}
}

func TestRuntimeScriptsOffByDefault(t *testing.T) {
	site := pageUpstream(t)
	srv := siteServer(t, site.URL, 0)

	resp, err := http.Get(srv.URL + "/a/b")
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "/wails/")
}

func TestInsertScripts(t *testing.T) {
	const s = "<script></script>"
	tests := []struct {
		name string
		page string
		want string
	}{
		{"plain head", "<html><head><title>x</title></head></html>", "<html><head>" + s + "<title>x</title></head></html>"},
		{"head with attributes", `<HEAD lang="en"><meta></HEAD>`, `<HEAD lang="en">` + s + `<meta></HEAD>`},
		{"header before head", "<header>h</header><head></head>", "<header>h</header><head>" + s + "</head>"},
		{"header only", "<body><header>h</header></body>", s + "<body><header>h</header></body>"},
		{"no head", "<p>hi</p>", s + "<p>hi</p>"},
		{"empty", "", s},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(insertScripts([]byte(tt.page), s)))
		})
	}
}

func TestProcessSplashWithoutCookies(t *testing.T) {
	site := upstream(t)
	srv := siteServer(t, site.URL, 3000, WithProcessSplash())

	// http.Get has no cookie jar, like a webview that drops cookies set
	// under its own asset scheme.
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, config.AppName)
	assert.Empty(t, resp.Cookies())

	for range 2 {
		resp, err = http.Get(srv.URL + "/")
		require.NoError(t, err)
		assert.Equal(t, "site:/", readBody(t, resp))
	}
}
