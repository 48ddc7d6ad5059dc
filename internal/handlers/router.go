package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/cms/defaults"
	"github.com/vineai/website/internal/httpx"
	assetmw "github.com/vineai/website/internal/middleware"
	"github.com/vineai/website/public"
)

type routerConfig struct {
	middlewares []func(http.Handler) http.Handler

	content        *cms.Service
	baseURL        string
	requestTimeout time.Duration
	animations     bool
	analytics      Analytics
	assets         fs.FS
	templateDir    string
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
	assetsPrefix   = "/assets"
)

// NewRouter constructs the chi router serving every page of the site.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		baseURL:        defaultBaseURL,
		requestTimeout: defaultTimeout,
		animations:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	middlewares := append([]func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.GetHead,
		middleware.Compress(5),
		middleware.Timeout(cfg.requestTimeout),
	}, cfg.middlewares...)

	if cfg.content == nil {
		cfg.content = cms.NewService(cms.Deps{Defaults: defaults.MustLoad()})
	}
	if cfg.assets == nil {
		cfg.assets = public.MustStaticFS()
	}

	s := &site{
		content:      cfg.content,
		renderer:     NewRenderer(cfg.templateDir),
		baseURL:      strings.TrimRight(cfg.baseURL, "/"),
		animations:   cfg.animations,
		analytics:    cfg.analytics,
		assetVersion: assetmw.AssetVersion(cfg.assets),
	}

	r := chi.NewRouter()
	for _, mw := range middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(s.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, req, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", healthz)
	r.Get("/robots.txt", s.robots)
	r.Get("/sitemap.xml", s.sitemap)
	r.Handle(assetsPrefix+"/*", assetmw.AssetsWithCache(cfg.assets, assetsPrefix))

	r.Get("/", s.home)
	r.Get("/team", s.team)
	r.Get("/blog", s.blog)
	r.Get("/blog/{slug}", s.article)

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithRequestTimeout bounds the time a page may take to render.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *routerConfig) {
		if d > 0 {
			cfg.requestTimeout = d
		}
	}
}

// WithContent sets the content service pages read from.
func WithContent(svc *cms.Service) Option {
	return func(cfg *routerConfig) {
		cfg.content = svc
	}
}

// WithBaseURL sets the absolute site URL used for canonical links and the sitemap.
func WithBaseURL(url string) Option {
	return func(cfg *routerConfig) {
		if strings.TrimSpace(url) != "" {
			cfg.baseURL = strings.TrimSpace(url)
		}
	}
}

// WithAnimations toggles scroll reveal and counter animations. When disabled, pages render in
// their final state.
func WithAnimations(enabled bool) Option {
	return func(cfg *routerConfig) {
		cfg.animations = enabled
	}
}

// WithAnalytics surfaces client instrumentation identifiers to templates.
func WithAnalytics(a Analytics) Option {
	return func(cfg *routerConfig) {
		cfg.analytics = a
	}
}

// WithAssets overrides the embedded static assets.
func WithAssets(fsys fs.FS) Option {
	return func(cfg *routerConfig) {
		cfg.assets = fsys
	}
}

// WithTemplateDir reparses templates from dir on every request.
func WithTemplateDir(dir string) Option {
	return func(cfg *routerConfig) {
		cfg.templateDir = dir
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
