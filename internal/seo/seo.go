package seo

import (
	"html/template"
	"strings"
)

// SiteName is appended to every page title.
const SiteName = "VineAI"

const titleSeparator = " — "

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []template.JS
	NoIndex     bool
}

// Title joins page and SiteName with titleSeparator. A page title that already starts or ends with the site name
// is kept.
func Title(page string) string {
	page = strings.TrimSpace(page)
	if page == "" || page == SiteName {
		return SiteName
	}
	if strings.HasSuffix(page, titleSeparator+SiteName) || strings.HasPrefix(page, SiteName+titleSeparator) {
		return page
	}
	return page + titleSeparator + SiteName
}

// Canonical joins baseURL and path without doubling slashes.
func Canonical(baseURL, path string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if path == "" || path == "/" {
		return baseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

// NewMeta fills the Open Graph and Twitter fields from the page title and description.
func NewMeta(baseURL, path, title, description, ogType string) Meta {
	if ogType == "" {
		ogType = "website"
	}
	full := Title(title)
	canonical := Canonical(baseURL, path)
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Type:        ogType,
			URL:         canonical,
			SiteName:    SiteName,
		},
		Twitter: Twitter{Card: "summary"},
	}
}

// WithJSONLD appends schema payloads rendered as script contents.
func (m Meta) WithJSONLD(payloads ...map[string]any) Meta {
	out := m
	out.JSONLD = append([]template.JS(nil), m.JSONLD...)
	for _, p := range payloads {
		if s := JSON(p); s != "" {
			out.JSONLD = append(out.JSONLD, template.JS(s))
		}
	}
	return out
}
