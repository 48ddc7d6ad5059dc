package seo

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Our Team — VineAI", Title("Our Team"))
	require.Equal(t, "Article Not Found — VineAI", Title("Article Not Found — VineAI"))
	require.Equal(t, "VineAI — AI Automation for Australian SMBs", Title("VineAI — AI Automation for Australian SMBs"))
	require.Equal(t, "VineAI", Title(" "))
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://vineai.com.au/", Canonical("https://vineai.com.au/", "/"))
	require.Equal(t, "https://vineai.com.au/blog/x", Canonical("https://vineai.com.au", "blog/x"))
}

func TestMetaJSONLD(t *testing.T) {
	t.Parallel()

	m := NewMeta("https://vineai.com.au", "/blog/ai-audit-guide", "The Complete Guide", "Excerpt", "article").
		WithJSONLD(
			BlogPosting("The Complete Guide", "Excerpt", "https://vineai.com.au/blog/ai-audit-guide", "Strategy", "2026-02-12", SiteName),
			BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "https://vineai.com.au/"}}),
		)
	require.Equal(t, "The Complete Guide — VineAI", m.OG.Title)
	require.Equal(t, "article", m.OG.Type)
	require.Len(t, m.JSONLD, 2)

	var posting map[string]any
	require.NoError(t, json.Unmarshal([]byte(m.JSONLD[0]), &posting))
	require.Equal(t, "BlogPosting", posting["@type"])
	require.Equal(t, "2026-02-12", posting["datePublished"])

	var crumbs map[string]any
	require.NoError(t, json.Unmarshal([]byte(m.JSONLD[1]), &crumbs))
	items := crumbs["itemListElement"].([]any)
	require.EqualValues(t, 1, items[0].(map[string]any)["position"])
}
