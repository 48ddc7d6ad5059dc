package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vineai/website/internal/cms"
	"github.com/vineai/website/internal/cms/defaults"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEmptyStoreReturnsAbsence(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	home, err := s.HomeData(ctx)
	require.NoError(t, err)
	require.Nil(t, home)

	team, err := s.TeamMembers(ctx)
	require.NoError(t, err)
	require.Empty(t, team)

	post, err := s.PostBySlug(ctx, "ai-audit-guide")
	require.NoError(t, err)
	require.Nil(t, post)
}

func TestSeedRoundTripsDefaults(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	d := defaults.MustLoad()

	n, err := s.Seed(ctx, d)
	require.NoError(t, err)
	require.Equal(t, 1+len(d.Team)+len(d.Posts), n)

	home, err := s.HomeData(ctx)
	require.NoError(t, err)
	require.NotNil(t, home)
	if diff := cmp.Diff(d.Home, cms.MergeHome(home, cms.HomeContent{})); diff != "" {
		t.Fatalf("stored home differs (-want +got):\n%s", diff)
	}

	team, err := s.TeamMembers(ctx)
	require.NoError(t, err)
	require.Equal(t, d.Team, team)

	summaries, err := s.Posts(ctx)
	require.NoError(t, err)
	require.Equal(t, d.Summaries(), summaries)

	slugs, err := s.PostSlugs(ctx)
	require.NoError(t, err)
	require.Equal(t, d.Slugs(), slugs)

	post, err := s.PostBySlug(ctx, "chatgpt-not-enough")
	require.NoError(t, err)
	require.NotNil(t, post)
	require.Equal(t, "Why ChatGPT Alone Isn't Enough: Moving Beyond Basic AI", post.Title)
	require.Len(t, post.Content, 9)

	again, err := s.Seed(ctx, d)
	require.NoError(t, err)
	require.Equal(t, n, again)
	slugs, err = s.PostSlugs(ctx)
	require.NoError(t, err)
	require.Len(t, slugs, len(d.Posts), "seeding twice upserts")
}

func TestPutAndDelete(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx,
		Document{ID: "team-b", Type: TypeTeam, Ord: 2, Body: cms.TeamMember{ID: "team-b", Name: "Second", Order: 2}},
		Document{ID: "team-a", Type: TypeTeam, Body: cms.TeamMember{ID: "team-a", Name: "Unordered"}},
		Document{ID: "p1", Type: TypePost, Slug: "lower-case", Date: "2026-03-01", Body: cms.Post{PostSummary: cms.PostSummary{ID: "p1", Slug: "lower-case", Category: "case study"}}},
	))

	team, err := s.TeamMembers(ctx)
	require.NoError(t, err)
	require.Len(t, team, 2)
	require.Equal(t, "Unordered", team[0].Name)
	require.Equal(t, 1, team[0].Order)
	require.Equal(t, "#34d399", team[0].AccentColor)

	post, err := s.PostBySlug(ctx, "lower-case")
	require.NoError(t, err)
	require.Equal(t, cms.CategoryCaseStudy, post.Category)

	require.NoError(t, s.Delete(ctx, "p1"))
	post, err = s.PostBySlug(ctx, "lower-case")
	require.NoError(t, err)
	require.Nil(t, post)

	require.Error(t, s.Put(ctx, Document{Type: TypePost}))
}

func TestStoreBacksService(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	d := defaults.MustLoad()

	require.NoError(t, s.Put(ctx, Document{
		ID: "p-new", Type: TypePost, Slug: "new-post", Date: "2027-01-01",
		Body: cms.Post{PostSummary: cms.PostSummary{ID: "p-new", Slug: "new-post", Title: "New", Date: "2027-01-01"}},
	}))

	svc := cms.NewService(cms.Deps{Source: cms.NewCachedSource(s), Defaults: d})
	require.Equal(t, "new-post", svc.Posts(ctx)[0].Slug)
	require.Len(t, svc.Posts(ctx), 1, "a non-empty remote list replaces the defaults")
	require.Equal(t, append([]string{"new-post"}, d.Slugs()...), svc.PostSlugs(ctx))

	post, err := svc.Post(ctx, "chatgpt-not-enough")
	require.NoError(t, err)
	require.Equal(t, "Why ChatGPT Alone Isn't Enough: Moving Beyond Basic AI", post.Title)
	require.Equal(t, d.Home, svc.Home(ctx))
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), " ")
	require.Error(t, err)
}

func TestHomeWithMistypedFieldKeepsTheRest(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, Document{ID: "homePage", Type: TypeHome, Body: map[string]any{
		"hero": map[string]any{"badge": 42, "heading": "Remote heading"},
	}}))

	home, err := s.HomeData(ctx)
	require.NoError(t, err)
	require.NotNil(t, home)

	merged := cms.MergeHome(home, defaults.MustLoad().Home)
	require.Equal(t, "Remote heading", merged.Hero.Heading)
	require.Equal(t, defaults.MustLoad().Home.Hero.Badge, merged.Hero.Badge)
}
