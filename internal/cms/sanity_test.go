package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSanityTestServer(t *testing.T, handler http.HandlerFunc) *SanityClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewSanityClient(SanityOptions{
		BaseURL:    srv.URL,
		Dataset:    "production",
		APIVersion: "2026-02-19",
		Token:      "secret",
	})
	require.NoError(t, err)
	return client
}

func TestNewSanityClientEndpoint(t *testing.T) {
	t.Parallel()

	client, err := NewSanityClient(SanityOptions{ProjectID: "yoredu23", APIVersion: "2026-02-19", UseCDN: true})
	require.NoError(t, err)
	require.Equal(t, "https://yoredu23.apicdn.sanity.io/v2026-02-19/data/query/production", client.Endpoint())

	client, err = NewSanityClient(SanityOptions{ProjectID: "yoredu23", Dataset: "staging", APIVersion: "v2026-02-19"})
	require.NoError(t, err)
	require.Equal(t, "https://yoredu23.api.sanity.io/v2026-02-19/data/query/staging", client.Endpoint())

	_, err = NewSanityClient(SanityOptions{APIVersion: "2026-02-19"})
	require.Error(t, err)
}

func TestSanityClientPostBySlug(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2026-02-19/data/query/production", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, `"chatgpt-not-enough"`, r.URL.Query().Get("$slug"))
		require.Contains(t, r.URL.Query().Get("query"), "slug.current == $slug")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"_id":"p2","title":"Remote","slug":"chatgpt-not-enough","category":"insights","date":"2026-02-05","featured":false,
			"content":[{"_type":"block","_key":"b1","style":"h2","markDefs":[],"children":[{"_type":"span","_key":"s1","text":"Heading","marks":[]}]}]}}`))
	})

	post, err := client.PostBySlug(context.Background(), "chatgpt-not-enough")
	require.NoError(t, err)
	require.NotNil(t, post)
	require.Equal(t, "Remote", post.Title)
	require.Equal(t, CategoryInsights, post.Category)
	require.Len(t, post.Content, 1)
	require.Equal(t, StyleH2, post.Content[0].Style)
}

func TestSanityClientNullResult(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	})

	post, err := client.PostBySlug(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, post)

	home, err := client.HomeData(context.Background())
	require.NoError(t, err)
	require.Nil(t, home)
}

func TestSanityClientHomePartial(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"hero":{"heading":"Remote","badge":null},"problems":[]}}`))
	})

	home, err := client.HomeData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, home)
	require.NotNil(t, home.Hero)
	require.Equal(t, "Remote", *home.Hero.Heading)
	require.Nil(t, home.Hero.Badge)
	require.Nil(t, home.About)
	require.Empty(t, home.Problems)
}

func TestSanityClientTeamAppliesSchemaDefaults(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Query().Get("query"), `*[_type == "team"]`))
		_, _ = w.Write([]byte(`{"result":[{"_id":"team-liam","name":"Liam Hargraves"},{"_id":"team-maya","name":"Maya","order":2,"accentColor":"#60a5fa"}]}`))
	})

	members, err := client.TeamMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "#34d399", members[0].AccentColor)
	require.Equal(t, "#059669", members[0].GradientTo)
	require.Equal(t, 1, members[0].Order)
	require.Equal(t, "#60a5fa", members[1].AccentColor)
	require.Equal(t, 2, members[1].Order)
}

func TestSanityClientSlugsAndErrors(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"slug":"a"},{"slug":null},{"slug":" b "}]}`))
	})
	slugs, err := client.PostSlugs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, slugs)

	failing := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorised", http.StatusUnauthorized)
	})
	_, err = failing.Posts(context.Background())
	require.ErrorContains(t, err, "status 401")

	garbled := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err = garbled.TeamMembers(context.Background())
	require.Error(t, err)
}

func TestSanityClientHomeKeepsValidFields(t *testing.T) {
	t.Parallel()

	client := newSanityTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{
			"hero":{"badge":42,"heading":"Remote heading","heroStats":"not a list"},
			"problems":[{"title":"Remote problem"}],
			"about":"not a section",
			"cta":{"buttonText":"Talk to us","trustItems":[1,2]}
		}}`))
	})

	home, err := client.HomeData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, home)
	require.NotNil(t, home.Hero)
	require.Nil(t, home.Hero.Badge)
	require.Equal(t, "Remote heading", *home.Hero.Heading)
	require.Nil(t, home.Hero.HeroStats)
	require.Len(t, home.Problems, 1)
	require.Nil(t, home.About)
	require.Equal(t, "Talk to us", *home.CTA.ButtonText)
	require.Nil(t, home.CTA.TrustItems)

	merged := MergeHome(home, fixtureHome())
	require.Equal(t, "Remote heading", merged.Hero.Heading)
	require.Equal(t, fixtureHome().Hero.Badge, merged.Hero.Badge)
	require.Equal(t, fixtureHome().Hero.HeroStats, merged.Hero.HeroStats)
	require.Equal(t, fixtureHome().About, merged.About)
}

func TestDecodeHome(t *testing.T) {
	t.Parallel()

	home, skipped, err := DecodeHome([]byte(`{"hero":{"badge":42,"heading":"Remote heading"},"stats":{"x":1},"unknown":true}`))
	require.NoError(t, err)
	require.Equal(t, "Remote heading", *home.Hero.Heading)
	require.ElementsMatch(t, []string{"hero.badge", "stats"}, skipped)

	home, skipped, err = DecodeHome([]byte(`null`))
	require.NoError(t, err)
	require.Nil(t, home)
	require.Empty(t, skipped)

	_, _, err = DecodeHome([]byte(`[1,2]`))
	require.Error(t, err)
}
