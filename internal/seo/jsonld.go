package seo

import (
	json "github.com/goccy/go-json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"addressLocality": "Melbourne",
			"addressCountry":  "AU",
		},
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// BlogPosting returns a BlogPosting schema for an article page.
func BlogPosting(headline, description, url, section, datePublished, publisher string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": headline,
	}
	if description != "" {
		m["description"] = description
	}
	if url != "" {
		m["url"] = url
		m["mainEntityOfPage"] = url
	}
	if section != "" {
		m["articleSection"] = section
	}
	if datePublished != "" {
		m["datePublished"] = datePublished
	}
	if publisher != "" {
		m["publisher"] = map[string]any{"@type": "Organization", "name": publisher}
		m["author"] = map[string]any{"@type": "Organization", "name": publisher}
	}
	return m
}
