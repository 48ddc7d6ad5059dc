package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActiveSection(t *testing.T) {
	t.Parallel()

	items := Build("/blog/ai-audit-guide")
	require.Len(t, items, 4)
	require.Equal(t, "/#solution", items[0].Href)
	require.False(t, items[2].Active)
	require.True(t, items[3].Active)

	home := Build("")
	require.Equal(t, "#process", home[1].Href)
	for _, it := range home {
		require.False(t, it.Active, it.Label)
	}

	require.False(t, Build("/blogroll")[3].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, Breadcrumbs("/", ""))
	require.Equal(t, []Crumb{
		{Href: "/", Label: "Home"},
		{Href: "/blog", Label: "Blog"},
		{Href: "/blog/ai-audit-guide", Label: "Ai audit guide", Active: true},
	}, Breadcrumbs("/blog/ai-audit-guide/", ""))

	crumbs := Breadcrumbs("/blog/ai-audit-guide", "The Complete Guide")
	require.Equal(t, "The Complete Guide", crumbs[2].Label)
}
