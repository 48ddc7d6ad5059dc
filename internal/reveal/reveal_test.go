package reveal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// feed is an observer whose entries are pushed by the test.
type feed struct {
	mu      sync.Mutex
	entries map[string]chan Entry
	ctxs    map[string]context.Context
}

func newFeed() *feed {
	return &feed{entries: make(map[string]chan Entry), ctxs: make(map[string]context.Context)}
}

func (f *feed) Observe(ctx context.Context, region string) (<-chan Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan Entry)
	f.entries[region] = ch
	f.ctxs[region] = ctx
	return ch, nil
}

func (f *feed) send(t *testing.T, region string, ratio float64) {
	t.Helper()
	f.mu.Lock()
	ch := f.entries[region]
	f.mu.Unlock()
	select {
	case ch <- Entry{Ratio: ratio}:
	case <-time.After(time.Second):
		t.Fatalf("region %s is not being watched", region)
	}
}

func (f *feed) unobserved(region string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxs[region].Err() != nil
}

func waitVisible(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Visible():
	case <-time.After(time.Second):
		t.Fatalf("region %s was not revealed", h.Region())
	}
}

func TestRegionBelowThresholdStaysHidden(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	h := s.Register(context.Background(), "hero", Up, 0)
	f.send(t, "hero", 0)
	f.send(t, "hero", 0.05)
	f.send(t, "hero", 0.0999)

	require.Equal(t, Hidden, h.State())
	require.Equal(t, 1, s.Pending())
	require.False(t, f.unobserved("hero"))
}

func TestRegionRevealsExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	h := s.Register(context.Background(), "problems", Left, 0.2)
	require.Equal(t, Hidden, h.State())

	f.send(t, "problems", 0.02)
	f.send(t, "problems", Threshold)
	waitVisible(t, h)
	require.Equal(t, Visible, h.State())

	require.Eventually(t, func() bool { return f.unobserved("problems") }, time.Second, 5*time.Millisecond)
	require.Equal(t, 0, s.Pending())

	f.mu.Lock()
	ch := f.entries["problems"]
	f.mu.Unlock()
	select {
	case ch <- Entry{Ratio: 0}:
		t.Fatal("revealed region is still receiving entries")
	default:
	}
	require.Equal(t, Visible, h.State(), "regions never re-hide")
}

func TestRegionsAreIndependent(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	a := s.Register(context.Background(), "a", Up, 0)
	b := s.Register(context.Background(), "b", Right, 0.1)
	f.send(t, "b", 0.5)
	waitVisible(t, b)

	require.Equal(t, Hidden, a.State())
	require.Equal(t, 1, s.Pending())
}

func TestObserverFailureShowsRegion(t *testing.T) {
	t.Parallel()

	failing := ObserverFunc(func(context.Context, string) (<-chan Entry, error) {
		return nil, errors.New("no layout engine")
	})
	for name, obs := range map[string]Observer{
		"unsupported": Unsupported(),
		"failing":     failing,
		"nil":         nil,
	} {
		s := NewScheduler(obs)
		h := s.Register(context.Background(), "cta", Up, 0)
		require.Equal(t, Visible, h.State(), name)
		s.Close()
	}
}

func TestStaticAndDeferredObservers(t *testing.T) {
	t.Parallel()

	static := NewScheduler(Static())
	defer static.Close()
	require.Equal(t, Visible, static.Register(context.Background(), "x", Up, 0).State())

	deferred := NewScheduler(Deferred())
	defer deferred.Close()
	require.Equal(t, Hidden, deferred.Register(context.Background(), "x", Up, 0).State())
}

func TestUnregisterStopsWatching(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	h := s.Register(context.Background(), "about", Up, 0)
	s.Unregister("about")
	require.True(t, f.unobserved("about"))
	require.Equal(t, Hidden, h.State())

	s.Unregister("about")
	require.Zero(t, s.Pending())
}

func TestRegisterIsIdempotentPerRegion(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	first := s.Register(context.Background(), "stats", Up, 0)
	require.Same(t, first, s.Register(context.Background(), "stats", Left, 0.3))
}

func TestCloseRevealsLateRegistrations(t *testing.T) {
	t.Parallel()

	s := NewScheduler(newFeed())
	pending := s.Register(context.Background(), "early", Up, 0)
	s.Close()
	require.Equal(t, Hidden, pending.State())

	late := s.Register(context.Background(), "late", Up, 0)
	require.Equal(t, Visible, late.State())
}

func TestCancelledContextUnobserves(t *testing.T) {
	t.Parallel()

	f := newFeed()
	s := NewScheduler(f)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	h := s.Register(ctx, "steps", Up, 0)
	cancel()
	require.Eventually(t, func() bool { return f.unobserved("steps") }, time.Second, 5*time.Millisecond)
	require.Equal(t, Hidden, h.State())
}

func TestHandleAttrs(t *testing.T) {
	t.Parallel()

	deferred := NewScheduler(Deferred())
	defer deferred.Close()
	require.Equal(t,
		`class="reveal from-left" data-reveal="left" data-reveal-delay="0.2" style="transition-delay:0.2s"`,
		string(deferred.Register(context.Background(), "a", Left, 0.2).Attrs()))
	require.Equal(t,
		`class="reveal" data-reveal="up"`,
		string(deferred.Register(context.Background(), "b", "sideways", -1).Attrs()))

	static := NewScheduler(Static())
	defer static.Close()
	require.Equal(t,
		`class="reveal from-right visible" data-reveal="right" data-reveal-delay="0.15" style="transition-delay:0.15s" data-revealed`,
		string(static.Register(context.Background(), "c", Right, 0.15).Attrs()))
}

func TestRevealerNamesRegionsInOrder(t *testing.T) {
	t.Parallel()

	r := NewRevealer(context.Background(), Deferred(), "home")
	defer r.Close()

	require.Equal(t, "home-1", r.Region("up", 0).Region())
	require.Equal(t, "home-2", r.Region("left", 0.1).Region())
	require.Contains(t, string(r.Attrs("right", 0)), `data-reveal="right"`)

	var nilRevealer *Revealer
	require.Empty(t, nilRevealer.Attrs("up", 0))
}
