package handlers

import (
	"html/template"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/nav"
	"github.com/vineai/website/internal/reveal"
	"github.com/vineai/website/internal/seo"
)

// copyrightYear is shown in the footer.
const copyrightYear = 2026

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
}

// PageData is the layout view model shared by every page.
type PageData struct {
	Meta         seo.Meta
	Analytics    Analytics
	AssetVersion string
	Year         int

	Path        string
	Nav         []nav.RenderedItem
	BookingHref string
	Breadcrumbs []nav.Crumb
	Footer      []nav.LinkGroup

	Reveal *reveal.Revealer
}

// HomePage is the view model for the landing page.
type HomePage struct {
	PageData
	Home    cms.HomeContent
	Counter CounterView
}

// CounterView drives the hero statistics counter. Frames are played by the browser when
// Animated is set; otherwise Initial already holds the final values.
type CounterView struct {
	Stats      []cms.HeroStat
	Initial    []int
	FramesJSON string
	IntervalMS int64
	Animated   bool
}

type TeamPage struct {
	PageData
	Team []cms.TeamMember
}

// BlogPage lists posts. Featured is nil when no post is flagged.
type BlogPage struct {
	PageData
	Featured *cms.PostSummary
	Posts    []cms.PostSummary
}

type ArticlePage struct {
	PageData
	Post cms.Post
	Body template.HTML
	More []cms.PostSummary
}

type NotFoundPage struct {
	PageData
	Heading   string
	Message   string
	BackHref  string
	BackLabel string
}
