package cms

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/format"
	"github.com/vineai/website/internal/requestctx"
)

// Defaults is the complete static content used whenever the source has nothing to offer.
type Defaults struct {
	Home  HomeContent
	Team  []TeamMember
	Posts []Post
}

// Slugs lists the default post slugs in order.
func (d *Defaults) Slugs() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Posts))
	for _, p := range d.Posts {
		out = append(out, p.Slug)
	}
	return out
}

// Summaries returns the default posts without bodies.
func (d *Defaults) Summaries() []PostSummary {
	if d == nil {
		return nil
	}
	out := make([]PostSummary, 0, len(d.Posts))
	for _, p := range d.Posts {
		out = append(out, p.PostSummary)
	}
	return out
}

// Deps wires a Service.
type Deps struct {
	// Source may be nil, in which case only defaults are served.
	Source   Source
	Defaults *Defaults
	Tracer   trace.Tracer
	// Meter defaults to the global meter provider.
	Meter metric.Meter
}

// Service is the single entry point pages use to obtain content.
type Service struct {
	source   Source
	tracer   trace.Tracer
	defaults atomic.Pointer[Defaults]

	latency   metric.Float64Histogram
	fallbacks metric.Int64Counter
}

const instrumentationName = "github.com/vineai/website/internal/cms"

// NewService constructs a Service. A nil Defaults is treated as empty content.
func NewService(deps Deps) *Service {
	s := &Service{source: deps.Source, tracer: deps.Tracer}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	meter := deps.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}
	// Instrument errors leave nil instruments, which finish skips.
	s.latency, _ = meter.Float64Histogram("cms.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds of content source fetches"),
	)
	s.fallbacks, _ = meter.Int64Counter("cms.fetch.fallbacks",
		metric.WithDescription("Count of fetches answered from the default content"),
	)
	s.SetDefaults(deps.Defaults)
	return s
}

// SetDefaults atomically replaces the fallback snapshot.
func (s *Service) SetDefaults(d *Defaults) {
	if d == nil {
		d = &Defaults{}
	}
	s.defaults.Store(d)
}

// Defaults returns the current fallback snapshot.
func (s *Service) Defaults() *Defaults {
	return s.defaults.Load()
}

// Home merges the remote home document over the defaults.
func (s *Service) Home(ctx context.Context) HomeContent {
	d := s.Defaults()
	var remote *RemoteHome
	if s.source != nil {
		start := time.Now()
		spanCtx, span := s.tracer.Start(ctx, "cms.HomeData")
		home, err := s.source.HomeData(spanCtx)
		if err != nil {
			home = nil
		}
		s.finish(spanCtx, span, start, "HomeData", err, home == nil)
		remote = home
	}
	return MergeHome(remote, d.Home)
}

// Team returns remote members when there are any, otherwise the default team.
func (s *Service) Team(ctx context.Context) []TeamMember {
	d := s.Defaults()
	var remote []TeamMember
	if s.source != nil {
		start := time.Now()
		spanCtx, span := s.tracer.Start(ctx, "cms.TeamMembers")
		members, err := s.source.TeamMembers(spanCtx)
		if err != nil {
			members = nil
		}
		s.finish(spanCtx, span, start, "TeamMembers", err, len(members) == 0)
		remote = members
	}
	if len(remote) == 0 {
		return cloneMembers(d.Team)
	}
	out := make([]TeamMember, 0, len(remote))
	for _, m := range remote {
		out = append(out, m.WithSchemaDefaults())
	}
	slices.SortStableFunc(out, func(a, b TeamMember) int { return a.Order - b.Order })
	return cloneMembers(out)
}

// Posts returns remote summaries when there are any, otherwise the default posts.
func (s *Service) Posts(ctx context.Context) []PostSummary {
	d := s.Defaults()
	var remote []PostSummary
	if s.source != nil {
		start := time.Now()
		spanCtx, span := s.tracer.Start(ctx, "cms.Posts")
		posts, err := s.source.Posts(spanCtx)
		if err != nil {
			posts = nil
		}
		s.finish(spanCtx, span, start, "Posts", err, len(posts) == 0)
		remote = posts
	}
	if len(remote) == 0 {
		return d.Summaries()
	}
	return sortByDateDesc(dedupeBySlug(remote))
}

// Post resolves slug against the source and then the default posts.
func (s *Service) Post(ctx context.Context, slug string) (Post, error) {
	d := s.Defaults()
	var lookup LookupFunc
	if s.source != nil {
		lookup = func(ctx context.Context, slug string) (*Post, error) {
			start := time.Now()
			spanCtx, span := s.tracer.Start(ctx, "cms.PostBySlug", trace.WithAttributes(attribute.String("cms.slug", slug)))
			post, err := s.source.PostBySlug(spanCtx, slug)
			if err != nil {
				post = nil
			}
			s.finish(spanCtx, span, start, "PostBySlug", err, post == nil)
			return post, err
		}
	}
	return ResolvePost(ctx, slug, lookup, d.Posts)
}

// PostSlugs enumerates every slug known to the source or the defaults.
func (s *Service) PostSlugs(ctx context.Context) []string {
	d := s.Defaults()
	var remote []string
	if s.source != nil {
		start := time.Now()
		spanCtx, span := s.tracer.Start(ctx, "cms.PostSlugs")
		slugs, err := s.source.PostSlugs(spanCtx)
		if err != nil {
			slugs = nil
		}
		s.finish(spanCtx, span, start, "PostSlugs", err, len(slugs) == 0)
		remote = slugs
	}
	return UnionSlugs(remote, d.Slugs())
}

// Featured picks the first featured post in list order. Every other post, including further
// featured ones, is returned in rest. ok is false when no post is featured.
func Featured(posts []PostSummary) (featured PostSummary, rest []PostSummary, ok bool) {
	rest = make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		if p.Featured && !ok {
			featured, ok = p, true
			continue
		}
		rest = append(rest, p)
	}
	return featured, rest, ok
}

// finish records the fetch outcome on span and the fetch metrics, logs failures and ends the span.
func (s *Service) finish(ctx context.Context, span trace.Span, start time.Time, op string, err error, fallback bool) {
	defer span.End()
	span.SetAttributes(attribute.Bool("cms.fallback", fallback))
	attrs := metric.WithAttributes(attribute.String("operation", op), attribute.Bool("error", err != nil))
	if s.latency != nil {
		s.latency.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), attrs)
	}
	if fallback && s.fallbacks != nil {
		s.fallbacks.Add(ctx, 1, attrs)
	}
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	requestctx.Logger(ctx).Warn("cms fetch failed, using defaults",
		zap.String("operation", op),
		zap.Error(err),
	)
}

func dedupeBySlug(posts []PostSummary) []PostSummary {
	seen := make(map[string]struct{}, len(posts))
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		seen[p.Slug] = struct{}{}
		out = append(out, p)
	}
	return out
}

// sortByDateDesc orders posts newest first, keeping source order for ties. Parsable dates sort
// ahead of unparsable ones, which fall back to comparing the raw strings.
func sortByDateDesc(posts []PostSummary) []PostSummary {
	slices.SortStableFunc(posts, func(a, b PostSummary) int {
		ta, okA := format.ParseDate(a.Date)
		tb, okB := format.ParseDate(b.Date)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(b.Date, a.Date)
		}
	})
	return posts
}
