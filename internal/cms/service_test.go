package cms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vineai/website/internal/requestctx"
)

func fixtureDefaults() *Defaults {
	return &Defaults{
		Home: fixtureHome(),
		Team: []TeamMember{
			{ID: "team-liam", Name: "Liam Hargraves", Order: 1},
			{ID: "team-maya", Name: "Maya Okonkwo", Order: 2},
		},
		Posts: []Post{
			{PostSummary: PostSummary{ID: "1", Slug: "ai-audit-guide", Title: "The Complete Guide", Date: "2026-02-12", Featured: true}},
			{PostSummary: PostSummary{ID: "2", Slug: "chatgpt-not-enough", Title: "Why ChatGPT Alone Isn't Enough: Moving Beyond Basic AI", Date: "2026-02-05", Excerpt: "Your team uses ChatGPT"}},
		},
	}
}

func TestServiceFallsBackWhenSourceFails(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := requestctx.WithLogger(context.Background(), zap.New(core))
	svc := NewService(Deps{Source: &stubSource{err: errors.New("dial tcp: no route to host")}, Defaults: fixtureDefaults()})

	require.Equal(t, fixtureHome(), svc.Home(ctx))
	require.Len(t, svc.Team(ctx), 2)
	require.Equal(t, "ai-audit-guide", svc.Posts(ctx)[0].Slug)
	require.Equal(t, []string{"ai-audit-guide", "chatgpt-not-enough"}, svc.PostSlugs(ctx))

	post, err := svc.Post(ctx, "chatgpt-not-enough")
	require.NoError(t, err)
	require.Equal(t, "Why ChatGPT Alone Isn't Enough: Moving Beyond Basic AI", post.Title)

	_, err = svc.Post(ctx, "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)

	require.GreaterOrEqual(t, logs.FilterMessage("cms fetch failed, using defaults").Len(), 5)
}

func TestServiceWithMeter(t *testing.T) {
	t.Parallel()

	svc := NewService(Deps{
		Source:   &stubSource{err: errors.New("timeout")},
		Defaults: fixtureDefaults(),
		Meter:    noop.NewMeterProvider().Meter("test"),
	})
	require.NotNil(t, svc.latency)
	require.NotNil(t, svc.fallbacks)
	require.Len(t, svc.Posts(context.Background()), 2)
}

func TestServiceWithoutSource(t *testing.T) {
	t.Parallel()

	svc := NewService(Deps{Defaults: fixtureDefaults()})
	require.Equal(t, "Liam Hargraves", svc.Team(context.Background())[0].Name)

	_, err := svc.Post(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceTeamSortsAndAppliesDefaults(t *testing.T) {
	t.Parallel()

	src := &stubSource{team: []TeamMember{
		{ID: "b", Name: "Jake", Order: 3},
		{ID: "a", Name: "Liam", Order: 1},
		{ID: "c", Name: "Maya", Order: 3},
		{ID: "d", Name: "Unordered"},
	}}
	svc := NewService(Deps{Source: src, Defaults: fixtureDefaults()})

	team := svc.Team(context.Background())
	names := make([]string, 0, len(team))
	for _, m := range team {
		names = append(names, m.Name)
		require.NotEmpty(t, m.AccentColor)
	}
	require.Equal(t, []string{"Liam", "Unordered", "Jake", "Maya"}, names)
}

func TestServicePostsDedupesAndSorts(t *testing.T) {
	t.Parallel()

	src := &stubSource{posts: []PostSummary{
		{Slug: "older", Date: "2026-01-01"},
		{Slug: "newer", Date: "2026-03-01", Title: "first"},
		{Slug: "newer", Date: "2026-03-01", Title: "duplicate"},
	}}
	svc := NewService(Deps{Source: src, Defaults: fixtureDefaults()})

	posts := svc.Posts(context.Background())
	require.Len(t, posts, 2)
	require.Equal(t, "newer", posts[0].Slug)
	require.Equal(t, "first", posts[0].Title)
}

func TestServicePostsSortByParsedDate(t *testing.T) {
	t.Parallel()

	src := &stubSource{posts: []PostSummary{
		{Slug: "undated", Date: "soon"},
		{Slug: "feb-5", Date: "5 February 2026"},
		{Slug: "feb-12", Date: "2026-02-12"},
		{Slug: "mar-1", Date: "March 1, 2026"},
		{Slug: "jan-20", Date: "2026-01-20T09:00:00+11:00"},
	}}
	svc := NewService(Deps{Source: src, Defaults: fixtureDefaults()})

	var slugs []string
	for _, p := range svc.Posts(context.Background()) {
		slugs = append(slugs, p.Slug)
	}
	require.Equal(t, []string{"mar-1", "feb-12", "feb-5", "jan-20", "undated"}, slugs)
}

func TestServicePostSlugsUnion(t *testing.T) {
	t.Parallel()

	src := &stubSource{slugs: []string{"remote-only", "ai-audit-guide"}}
	svc := NewService(Deps{Source: src, Defaults: fixtureDefaults()})

	require.Equal(t, []string{"remote-only", "ai-audit-guide", "chatgpt-not-enough"}, svc.PostSlugs(context.Background()))
}

func TestServiceSetDefaults(t *testing.T) {
	t.Parallel()

	svc := NewService(Deps{})
	require.Empty(t, svc.Posts(context.Background()))

	svc.SetDefaults(fixtureDefaults())
	require.Len(t, svc.Posts(context.Background()), 2)
}

func TestFeatured(t *testing.T) {
	t.Parallel()

	posts := []PostSummary{
		{Slug: "a"},
		{Slug: "b", Featured: true},
		{Slug: "c", Featured: true},
		{Slug: "d"},
	}
	featured, rest, ok := Featured(posts)
	require.True(t, ok)
	require.Equal(t, "b", featured.Slug)
	require.Equal(t, []string{"a", "c", "d"}, slugsOf(rest))

	_, rest, ok = Featured([]PostSummary{{Slug: "a"}})
	require.False(t, ok)
	require.Len(t, rest, 1)
}

func slugsOf(posts []PostSummary) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}
