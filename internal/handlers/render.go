package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"regexp"
	"sync"

	"github.com/a-h/templ"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/format"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const layoutFile = "layout.tmpl"

// Page template names.
const (
	pageHome     = "home"
	pageTeam     = "team"
	pageBlog     = "blog"
	pageArticle  = "article"
	pageNotFound = "notfound"
)

var pageNames = []string{pageHome, pageTeam, pageBlog, pageArticle, pageNotFound}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

var funcMap = template.FuncMap{
	"lines":         format.Lines,
	"shortDate":     format.ShortDate,
	"longDate":      format.LongDate,
	"categoryClass": format.CategoryClass,
	"delay": func(i int, step float64) float64 {
		return float64(i) * step
	},
	"memberStyle": memberStyle,
}

// memberStyle exposes a member's colours as CSS custom properties. Invalid colours fall back to
// the schema defaults.
func memberStyle(m cms.TeamMember) template.CSS {
	def := cms.TeamMember{}.WithSchemaDefaults()
	pick := func(v, fallback string) string {
		if hexColor.MatchString(v) {
			return v
		}
		return fallback
	}
	return template.CSS(fmt.Sprintf("--accent:%s;--from:%s;--to:%s",
		pick(m.AccentColor, def.AccentColor),
		pick(m.GradientFrom, def.GradientFrom),
		pick(m.GradientTo, def.GradientTo)))
}

// Renderer turns page view models into templ components. Templates are parsed once, or on every
// render when a template directory is configured for development.
type Renderer struct {
	dir string

	once  sync.Once
	pages map[string]*template.Template
	err   error
}

// NewRenderer parses the embedded templates. A non-empty dir reparses templates from disk on
// every render.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

func (r *Renderer) templates() (map[string]*template.Template, error) {
	if r.dir != "" {
		return parseTemplates(os.DirFS(r.dir))
	}
	r.once.Do(func() {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			r.err = err
			return
		}
		r.pages, r.err = parseTemplates(sub)
	})
	return r.pages, r.err
}

// Component renders the named page with data.
func (r *Renderer) Component(name string, data any) (templ.Component, error) {
	pages, err := r.templates()
	if err != nil {
		return nil, err
	}
	t, ok := pages[name]
	if !ok {
		return nil, fmt.Errorf("handlers: unknown page %q", name)
	}
	return templ.FromGoHTML(t, data), nil
}

// Validate reports template parse errors early.
func (r *Renderer) Validate() error {
	_, err := r.templates()
	return err
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	layout, err := template.New("_root").Funcs(funcMap).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("handlers: parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(fsys, name+".tmpl"); err != nil {
			return nil, fmt.Errorf("handlers: parse %s: %w", name, err)
		}
		base := clone.Lookup("base")
		if base == nil {
			return nil, fmt.Errorf("handlers: layout does not define base")
		}
		pages[name] = base
	}
	return pages, nil
}
