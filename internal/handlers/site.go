package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/ethcocoders/techtonicml-desktop/internal/config"
	"github.com/ethcocoders/techtonicml-desktop/internal/webfs"
)

// splashCookie marks a browser session that has already seen the splash.
const splashCookie = "deckapp_splash"

// runtimeScripts load the desktop bridge into a page. The webview's asset
// server serves both paths itself.
const runtimeScripts = `<script src="/wails/ipc.js"></script><script src="/wails/runtime.js"></script>`

// Site serves the splash page at "/" once per session and reverse-proxies
// everything else to the configured website. Serving the website from the
// host's own origin keeps the bridge binding available to its pages.
type Site struct {
	target    *url.URL
	splashMS  int
	version   string
	proxy     *httputil.ReverseProxy
	templates *template.Template

	injectRuntime bool
	processSplash bool
	splashShown   atomic.Bool
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithRuntimeScripts adds the desktop bridge scripts to every proxied HTML
// page. The webview only does this itself for paths ending in "/" or
// "/index.html".
func WithRuntimeScripts() SiteOption {
	return func(s *Site) { s.injectRuntime = true }
}

// WithProcessSplash shows the splash once per process instead of once per
// cookie session, for webviews that don't keep cookies set by the app's own
// asset scheme.
func WithProcessSplash() SiteOption {
	return func(s *Site) { s.processSplash = true }
}

type skipInjectKey struct{}

type pageData struct {
	Title       string
	Description string
	Version     string
	SplashMS    int
	Next        string
	Website     string
}

// NewSite creates the splash/proxy handler for cfg.WebsiteURL
func NewSite(cfg *config.Config, version string, opts ...SiteOption) (*Site, error) {
	target, err := url.Parse(cfg.WebsiteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid website URL: %w", err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("invalid website URL %q: must be an absolute http(s) URL", cfg.WebsiteURL)
	}

	tmpl, err := template.ParseFS(webfs.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Site{
		target:    target,
		splashMS:  cfg.SplashMS,
		version:   version,
		templates: tmpl,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.proxy = &httputil.ReverseProxy{
		Rewrite:        s.rewrite,
		ModifyResponse: s.modifyResponse,
		ErrorHandler:   s.proxyError,
	}
	return s, nil
}

// ServeHTTP shows the splash for the first page load, then proxies.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.showSplash(r) {
		if !s.processSplash {
			http.SetCookie(w, &http.Cookie{
				Name:     splashCookie,
				Value:    "1",
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}
		w.Header().Set("Cache-Control", "no-store")
		s.render(w, http.StatusOK, "splash.html")
		return
	}
	if s.injectRuntime && webviewInjects(r.URL.Path) {
		r = r.WithContext(context.WithValue(r.Context(), skipInjectKey{}, true))
	}
	s.proxy.ServeHTTP(w, r)
}

// showSplash reports whether r should get the splash. In process mode the
// first eligible request claims it.
func (s *Site) showSplash(r *http.Request) bool {
	if s.splashMS <= 0 || r.URL.Path != "/" {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if s.processSplash {
		return s.splashShown.CompareAndSwap(false, true)
	}
	_, err := r.Cookie(splashCookie)
	return err != nil
}

// webviewInjects mirrors the asset server's own rule for adding the runtime.
func webviewInjects(path string) bool {
	return path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, "/index.html")
}

func (s *Site) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(s.target)
	pr.Out.Host = s.target.Host

	// Pages must arrive uncompressed to take the runtime scripts. The
	// transport still negotiates gzip on its own and decodes it.
	if s.injectRuntime {
		pr.Out.Header.Del("Accept-Encoding")
	}

	// Our session cookie is none of the website's business.
	cookies := pr.In.Cookies()
	pr.Out.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name != splashCookie {
			pr.Out.AddCookie(c)
		}
	}

	// Origin and Referer name the host's origin; present the website's instead.
	if pr.In.Header.Get("Origin") != "" {
		pr.Out.Header.Set("Origin", s.origin())
	}
	if ref := pr.In.Header.Get("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil {
			u.Scheme, u.Host = s.target.Scheme, s.target.Host
			pr.Out.Header.Set("Referer", u.String())
		}
	}
}

func (s *Site) modifyResponse(resp *http.Response) error {
	s.rewriteLocation(resp)
	if s.injectRuntime && needsRuntime(resp) {
		return injectRuntime(resp)
	}
	return nil
}

// rewriteLocation keeps redirects to the website on the host's origin.
func (s *Site) rewriteLocation(resp *http.Response) {
	loc := resp.Header.Get("Location")
	if loc == "" {
		return
	}
	u, err := url.Parse(loc)
	if err != nil || !strings.EqualFold(u.Host, s.target.Host) {
		return
	}
	u.Scheme, u.Host = "", ""
	if u.Path == "" {
		u.Path = "/"
	}
	resp.Header.Set("Location", u.String())
}

func needsRuntime(resp *http.Response) bool {
	if skip, _ := resp.Request.Context().Value(skipInjectKey{}).(bool); skip {
		return false
	}
	if enc := resp.Header.Get("Content-Encoding"); enc != "" && enc != "identity" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

func injectRuntime(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	page := insertScripts(body, runtimeScripts)
	resp.Body = io.NopCloser(bytes.NewReader(page))
	resp.ContentLength = int64(len(page))
	resp.Header.Set("Content-Length", strconv.Itoa(len(page)))
	return nil
}

// insertScripts places scripts right after the opening <head> tag, or at the
// top of the document when there is none.
func insertScripts(page []byte, scripts string) []byte {
	at := 0
	lower := bytes.ToLower(page)
	for from := 0; ; {
		i := bytes.Index(lower[from:], []byte("<head"))
		if i < 0 {
			break
		}
		i += from
		rest := lower[i+len("<head"):]
		// Skip <header> and friends.
		if len(rest) > 0 && (rest[0] == '>' || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r') {
			if j := bytes.IndexByte(rest, '>'); j >= 0 {
				at = i + len("<head") + j + 1
			}
			break
		}
		from = i + len("<head")
	}

	out := make([]byte, 0, len(page)+len(scripts))
	out = append(out, page[:at]...)
	out = append(out, scripts...)
	return append(out, page[at:]...)
}

func (s *Site) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("website unreachable", "url", s.target.String(), "path", r.URL.Path, "error", err)
	s.render(w, http.StatusBadGateway, "offline.html")
}

func (s *Site) origin() string {
	return s.target.Scheme + "://" + s.target.Host
}

func (s *Site) render(w http.ResponseWriter, status int, name string) {
	data := pageData{
		Title:       config.AppName,
		Description: config.AppDescription,
		Version:     s.version,
		SplashMS:    s.splashMS,
		Next:        "/",
		Website:     s.target.Host,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
	}
}
