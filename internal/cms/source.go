// Package cms resolves page content from a remote content source with static defaults as fallback.
package cms

import (
	"context"
	"strings"
)

// Source provides read-only access to remotely authored content. Every method may fail; callers
// treat an error the same as an empty result.
type Source interface {
	// HomeData returns the home document, or nil when none has been authored.
	HomeData(ctx context.Context) (*RemoteHome, error)
	// TeamMembers returns members ordered by display order ascending.
	TeamMembers(ctx context.Context) ([]TeamMember, error)
	// Posts returns post summaries ordered by date descending.
	Posts(ctx context.Context) ([]PostSummary, error)
	// PostBySlug returns the full post, or nil when no post has the slug.
	PostBySlug(ctx context.Context, slug string) (*Post, error)
	PostSlugs(ctx context.Context) ([]string, error)
}

// rawMember mirrors a team document where the order may be missing.
type rawMember struct {
	ID           string       `json:"_id"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	Initials     string       `json:"initials"`
	Bio          string       `json:"bio"`
	Quote        string       `json:"quote"`
	Specialities []string     `json:"specialities"`
	Stats        []MemberStat `json:"stats"`
	AccentColor  string       `json:"accentColor"`
	GradientFrom string       `json:"gradientFrom"`
	GradientTo   string       `json:"gradientTo"`
	Order        *int         `json:"order"`
}

func (r rawMember) member() TeamMember {
	return TeamMember{
		ID:           r.ID,
		Name:         r.Name,
		Role:         r.Role,
		Initials:     r.Initials,
		Bio:          r.Bio,
		Quote:        r.Quote,
		Specialities: r.Specialities,
		Stats:        r.Stats,
		AccentColor:  r.AccentColor,
		GradientFrom: r.GradientFrom,
		GradientTo:   r.GradientTo,
		Order:        pickInt(r.Order, defaultMemberOrder),
	}.WithSchemaDefaults()
}

func membersFromRaw(raw []rawMember) []TeamMember {
	out := make([]TeamMember, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Name) == "" {
			continue
		}
		out = append(out, r.member())
	}
	return out
}

func normalizeSummary(p PostSummary) PostSummary {
	p.Slug = strings.TrimSpace(p.Slug)
	p.Category = NormalizeCategory(p.Category)
	return p
}

func normalizeSummaries(in []PostSummary) []PostSummary {
	out := make([]PostSummary, 0, len(in))
	for _, p := range in {
		p = normalizeSummary(p)
		if p.Slug == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
