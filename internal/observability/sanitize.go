package observability

import (
	"strings"
	"unicode"
)

const (
	routeLimit  = 180
	methodLimit = 10
	addrLimit   = 64
	slugLimit   = 96
)

// clean drops control characters and keeps at most limit runes.
func clean(value string, limit int) string {
	value = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if runes := []rune(value); len(runes) > limit {
		return string(runes[:limit])
	}
	return value
}

func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return clean(route, routeLimit)
}

func SanitizeMethod(method string) string {
	return clean(method, methodLimit)
}

// SanitizeSlug prepares a post slug taken from the URL for logging.
func SanitizeSlug(slug string) string {
	return clean(strings.TrimSpace(slug), slugLimit)
}
