package cms

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound reports that a slug matches no post in either the content source or the defaults.
var ErrNotFound = errors.New("cms: not found")

// LookupFunc fetches a single post by slug from a content source. A nil post with a nil error
// means the source has no such post.
type LookupFunc func(ctx context.Context, slug string) (*Post, error)

// ResolvePost returns the remote post for slug, falling back to an exact slug match in fallback.
// Lookup errors are swallowed; the only error returned is ErrNotFound.
func ResolvePost(ctx context.Context, slug string, lookup LookupFunc, fallback []Post) (Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Post{}, ErrNotFound
	}
	if lookup != nil {
		if post, err := safeLookup(ctx, lookup, slug); err == nil && post != nil {
			return *post, nil
		}
	}
	for _, post := range fallback {
		if post.Slug == slug {
			return clonePost(post), nil
		}
	}
	return Post{}, ErrNotFound
}

func safeLookup(ctx context.Context, lookup LookupFunc, slug string) (post *Post, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			post, err = nil, errors.New("cms: lookup panicked")
		}
	}()
	return lookup(ctx, slug)
}

// UnionSlugs merges remote and fallback slugs, keeping first-seen order and dropping blanks and
// duplicates.
func UnionSlugs(remote, fallback []string) []string {
	seen := make(map[string]struct{}, len(remote)+len(fallback))
	out := make([]string, 0, len(remote)+len(fallback))
	for _, list := range [][]string{remote, fallback} {
		for _, slug := range list {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			out = append(out, slug)
		}
	}
	return out
}
