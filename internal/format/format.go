package format

import (
	"html"
	"html/template"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2 Jan 2006",
	"2 January 2006",
	"January 2, 2006",
}

// ParseDate accepts ISO dates with or without a time part, and the written day-month-year forms
// the site itself prints.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShortDate formats a listing date, e.g. "12 Feb 2026". Unparsable input is returned as is.
func ShortDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("2 Jan 2006")
}

// LongDate formats an article date, e.g. "12 February 2026". Unparsable input is returned as is.
func LongDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("2 January 2006")
}

var categoryClasses = map[string]string{
	"Strategy":   "cat-strategy",
	"Insights":   "cat-insights",
	"Case Study": "cat-casestudy",
	"Compliance": "cat-compliance",
}

// CategoryClass returns the badge class of a post category; unknown categories look like Strategy.
func CategoryClass(category string) string {
	if c, ok := categoryClasses[category]; ok {
		return c
	}
	return "cat-strategy"
}

// Lines escapes s and turns newlines into <br>.
func Lines(s string) template.HTML {
	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, p := range parts {
		parts[i] = html.EscapeString(p)
	}
	return template.HTML(strings.Join(parts, "<br>"))
}
