package handlers

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/counter"
	"github.com/vineai/website/internal/httpx"
	"github.com/vineai/website/internal/nav"
	"github.com/vineai/website/internal/observability"
	"github.com/vineai/website/internal/requestctx"
	"github.com/vineai/website/internal/reveal"
	"github.com/vineai/website/internal/seo"
)

const (
	homeTitle       = "VineAI — AI Automation for Australian SMBs"
	homeDescription = "We audit your business, find the highest-impact AI opportunities, and implement the systems that cut costs, automate workflows, and free up your team."
	teamTitle       = "Our Team"
	teamDescription = "Meet the AI engineers, strategists, and automation specialists behind VineAI."
	blogTitle       = "Blog"
	blogDescription = "Practical AI knowledge for Australian business owners — no fluff."

	articleNotFoundTitle = "Article Not Found"
	pageNotFoundTitle    = "Page Not Found"

	moreFromBlog = 3
)

type site struct {
	content      *cms.Service
	renderer     *Renderer
	baseURL      string
	animations   bool
	analytics    Analytics
	assetVersion string
}

func (s *site) observer() reveal.Observer {
	if s.animations {
		return reveal.Deferred()
	}
	return reveal.Static()
}

func (s *site) page(r *http.Request, rv *reveal.Revealer, title, description, ogType string) PageData {
	path := r.URL.Path
	return PageData{
		Meta:         seo.NewMeta(s.baseURL, path, title, description, ogType),
		Analytics:    s.analytics,
		AssetVersion: s.assetVersion,
		Year:         copyrightYear,
		Path:         path,
		Nav:          nav.Build(path),
		BookingHref:  nav.SectionHref(path, nav.BookingSection),
		Breadcrumbs:  nav.Breadcrumbs(path, ""),
		Footer:       nav.Footer,
		Reveal:       rv,
	}
}

func (s *site) breadcrumbLD(crumbs []nav.Crumb) map[string]any {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: seo.Canonical(s.baseURL, c.Href)})
	}
	return seo.BreadcrumbList(items)
}

// render writes the named page. Templates render into a buffer, so a failing template still
// produces a clean 500.
func (s *site) render(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	comp, err := s.renderer.Component(name, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	templ.Handler(comp,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.fail(w, r, err) })
		}),
	).ServeHTTP(w, r)
}

func (s *site) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestctx.Logger(r.Context()).Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	httpx.WriteError(r.Context(), w, r, httpx.NewError("render_failed", "internal server error", http.StatusInternalServerError))
}

func (s *site) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rv := reveal.NewRevealer(ctx, s.observer(), "reveal")
	defer rv.Close()

	home := s.content.Home(ctx)
	data := HomePage{
		PageData: s.page(r, rv, homeTitle, homeDescription, "website"),
		Home:     home,
		Counter:  s.counter(home.Hero.HeroStats),
	}
	data.Meta = data.Meta.WithJSONLD(
		seo.Organization(seo.SiteName, s.baseURL+"/", ""),
		seo.WebSite(seo.SiteName, s.baseURL+"/"),
	)
	s.render(w, r, pageHome, data, http.StatusOK)
}

func (s *site) counter(stats []cms.HeroStat) CounterView {
	targets := make([]int, len(stats))
	for i, st := range stats {
		targets[i] = st.TargetNumber
	}
	a := counter.New(targets)
	view := CounterView{
		Stats:      stats,
		Initial:    targets,
		IntervalMS: a.Interval().Milliseconds(),
	}
	if !s.animations {
		return view
	}
	frames, err := json.Marshal(a.Frames())
	if err != nil {
		return view
	}
	view.Animated = true
	view.Initial = a.Initial()
	view.FramesJSON = string(frames)
	return view
}

func (s *site) team(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rv := reveal.NewRevealer(ctx, s.observer(), "reveal")
	defer rv.Close()

	data := TeamPage{
		PageData: s.page(r, rv, teamTitle, teamDescription, "website"),
		Team:     s.content.Team(ctx),
	}
	data.Meta = data.Meta.WithJSONLD(s.breadcrumbLD(data.Breadcrumbs))
	s.render(w, r, pageTeam, data, http.StatusOK)
}

func (s *site) blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rv := reveal.NewRevealer(ctx, s.observer(), "reveal")
	defer rv.Close()

	featured, rest, ok := cms.Featured(s.content.Posts(ctx))
	data := BlogPage{
		PageData: s.page(r, rv, blogTitle, blogDescription, "website"),
		Posts:    rest,
	}
	if ok {
		data.Featured = &featured
	}
	data.Meta = data.Meta.WithJSONLD(s.breadcrumbLD(data.Breadcrumbs))
	s.render(w, r, pageBlog, data, http.StatusOK)
}

func (s *site) article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := s.content.Post(ctx, slug)
	if errors.Is(err, cms.ErrNotFound) {
		requestctx.Logger(ctx).Info("article not found", zap.String("slug", observability.SanitizeSlug(slug)))
		s.articleNotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rv := reveal.NewRevealer(ctx, s.observer(), "reveal")
	defer rv.Close()

	data := ArticlePage{
		PageData: s.page(r, rv, post.Title, post.Excerpt, "article"),
		Post:     post,
		More:     otherPosts(s.content.Posts(ctx), post.Slug, moreFromBlog),
	}
	if post.HasContent() {
		data.Body = cms.RenderBlocks(post.Content)
	}
	data.Breadcrumbs = nav.Breadcrumbs(r.URL.Path, post.Title)
	data.Meta = data.Meta.WithJSONLD(
		seo.BlogPosting(post.Title, post.Excerpt, data.Meta.Canonical, post.Category, post.Date, seo.SiteName),
		s.breadcrumbLD(data.Breadcrumbs),
	)
	s.render(w, r, pageArticle, data, http.StatusOK)
}

// otherPosts returns up to limit posts other than slug, in listing order.
func otherPosts(posts []cms.PostSummary, slug string, limit int) []cms.PostSummary {
	out := make([]cms.PostSummary, 0, limit)
	for _, p := range posts {
		if len(out) == limit {
			break
		}
		if p.Slug == slug {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *site) articleNotFound(w http.ResponseWriter, r *http.Request) {
	data := NotFoundPage{
		PageData:  s.page(r, nil, articleNotFoundTitle, "The article you're looking for doesn't exist or has been moved.", "website"),
		Heading:   "Article not found",
		Message:   "The article you're looking for doesn't exist or has been moved.",
		BackHref:  "/blog",
		BackLabel: "← Back to Blog",
	}
	data.Meta.NoIndex = true
	s.render(w, r, pageNotFound, data, http.StatusNotFound)
}

func (s *site) notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.WriteError(r.Context(), w, r, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", r.URL.Path), http.StatusNotFound))
		return
	}
	data := NotFoundPage{
		PageData:  s.page(r, nil, pageNotFoundTitle, "This page doesn't exist.", "website"),
		Heading:   "Page not found",
		Message:   "The page you're looking for doesn't exist or has been moved.",
		BackHref:  "/",
		BackLabel: "← Back to Home",
	}
	data.Meta.NoIndex = true
	s.render(w, r, pageNotFound, data, http.StatusNotFound)
}

func (s *site) robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", s.baseURL)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapPaths lists every page path of the site, including one article path per enumerated slug.
func SitemapPaths(ctx context.Context, svc *cms.Service) []string {
	paths := []string{"/", "/team", "/blog"}
	for _, slug := range svc.PostSlugs(ctx) {
		paths = append(paths, "/blog/"+slug)
	}
	return paths
}

func (s *site) sitemap(w http.ResponseWriter, r *http.Request) {
	dates := make(map[string]string)
	for _, p := range s.content.Posts(r.Context()) {
		dates[p.Slug] = p.Date
	}

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range SitemapPaths(r.Context(), s.content) {
		u := sitemapURL{Loc: seo.Canonical(s.baseURL, path)}
		if slug, ok := strings.CutPrefix(path, "/blog/"); ok {
			u.LastMod = dates[slug]
		}
		set.URLs = append(set.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		requestctx.Logger(r.Context()).Warn("sitemap encode failed", zap.Error(err))
	}
}
