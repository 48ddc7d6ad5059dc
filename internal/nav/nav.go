package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item. Section items point at an anchor on the home page.
type Item struct {
	Path    string // e.g. "/team"
	Section string // e.g. "solution"
	Label   string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Link is a footer link. Entries without Href render as plain text.
type Link struct {
	Href  string
	Label string
}

// LinkGroup is a footer column.
type LinkGroup struct {
	Title string
	Links []Link
}

// BookingSection is the anchor of the booking call-to-action on the home page.
const BookingSection = "book"

// Main is the primary navigation definition.
var Main = []Item{
	{Section: "solution", Label: "Solution"},
	{Section: "process", Label: "Process"},
	{Path: "/team", Label: "Team"},
	{Path: "/blog", Label: "Blog"},
}

// Footer is the footer link definition.
var Footer = []LinkGroup{
	{Title: "Company", Links: []Link{{Href: "/", Label: "Home"}, {Href: "/team", Label: "Team"}, {Href: "/blog", Label: "Blog"}}},
	{Title: "Legal", Links: []Link{{Label: "Privacy Policy"}, {Label: "Terms of Service"}, {Label: "Contact"}}},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		if it.Section != "" {
			items = append(items, RenderedItem{Href: SectionHref(currentPath, it.Section), Label: it.Label})
			continue
		}
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return items
}

// SectionHref links to a home page section: a bare anchor on the home page, "/#id" elsewhere.
func SectionHref(currentPath, section string) string {
	if currentPath == "/" || currentPath == "" {
		return "#" + section
	}
	return "/#" + section
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/blog" or "/blog/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. The last crumb may be given an
// explicit label, e.g. an article title instead of its slug.
func Breadcrumbs(currentPath, lastLabel string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := titleFromSegment(part)
		if i == 0 {
			for _, it := range Main {
				if it.Path == href {
					label = it.Label
					break
				}
			}
		}
		last := i == len(parts)-1
		if last && lastLabel != "" {
			label = lastLabel
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: last})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
