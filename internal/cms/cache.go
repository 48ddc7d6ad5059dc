package cms

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

const (
	DefaultCacheTTL     = 60 * time.Second
	DefaultSlugCacheTTL = time.Hour
)

// errNoPost keeps "no such post" answers out of the cache, so unknown slugs never add entries.
var errNoPost = errors.New("cms: post not in source")

type cacheEntry struct {
	value   any
	expires time.Time
}

// CachedSource memoises successful Source results for a fixed TTL. Errors and missing posts are
// never cached, and expired entries are dropped whenever a new entry is stored.
type CachedSource struct {
	next    Source
	ttl     time.Duration
	slugTTL time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// CacheOption customises a CachedSource.
type CacheOption func(*CachedSource)

// WithTTL sets the lifetime of home, team and post results.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSlugTTL sets the lifetime of the slug list.
func WithSlugTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		if ttl > 0 {
			c.slugTTL = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachedSource) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCachedSource wraps next with a TTL cache.
func NewCachedSource(next Source, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		next:    next,
		ttl:     DefaultCacheTTL,
		slugTTL: DefaultSlugCacheTTL,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Purge drops every cached entry.
func (c *CachedSource) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *CachedSource) HomeData(ctx context.Context) (*RemoteHome, error) {
	return cached(c, "home", c.ttl, func() (*RemoteHome, error) { return c.next.HomeData(ctx) })
}

func (c *CachedSource) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	members, err := cached(c, "team", c.ttl, func() ([]TeamMember, error) { return c.next.TeamMembers(ctx) })
	return cloneMembers(members), err
}

func (c *CachedSource) Posts(ctx context.Context) ([]PostSummary, error) {
	posts, err := cached(c, "posts", c.ttl, func() ([]PostSummary, error) { return c.next.Posts(ctx) })
	return slices.Clone(posts), err
}

func (c *CachedSource) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	post, err := cached(c, "post:"+slug, c.ttl, func() (*Post, error) {
		p, err := c.next.PostBySlug(ctx, slug)
		if err == nil && p == nil {
			return nil, errNoPost
		}
		return p, err
	})
	if errors.Is(err, errNoPost) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cp := clonePost(*post)
	return &cp, nil
}

func (c *CachedSource) PostSlugs(ctx context.Context) ([]string, error) {
	slugs, err := cached(c, "slugs", c.slugTTL, func() ([]string, error) { return c.next.PostSlugs(ctx) })
	return slices.Clone(slugs), err
}

func cached[T any](c *CachedSource, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	now := c.now()
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		if v, ok := entry.value.(T); ok {
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{value: v, expires: now.Add(ttl)}
	c.mu.Unlock()
	return v, nil
}

// Len returns the number of stored entries, expired ones included.
func (c *CachedSource) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
