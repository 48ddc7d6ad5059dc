package cms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/requestctx"
)

const (
	queryHome            = `*[_type == "homePage"][0]`
	queryTeam            = `*[_type == "team"] | order(order asc) { _id, name, role, initials, bio, quote, specialities, stats, accentColor, gradientFrom, gradientTo, order }`
	queryPosts           = `*[_type == "post"] | order(date desc) { _id, title, "slug": slug.current, category, excerpt, timeToRead, date, featured }`
	queryPost            = `*[_type == "post" && slug.current == $slug][0] { _id, title, "slug": slug.current, category, excerpt, timeToRead, date, featured, content }`
	querySlugs           = `*[_type == "post"] { "slug": slug.current }`
	defaultSanityTimeout = 5 * time.Second
	maxResponseBytes     = 4 << 20
)

// SanityOptions configures a SanityClient.
type SanityOptions struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	// APIHost defaults to api.sanity.io. The CDN variant swaps the leading "api." for "apicdn.".
	APIHost string
	// BaseURL overrides the computed project endpoint, e.g. to point at a local mirror.
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

// SanityClient queries a Sanity-compatible GROQ HTTP API.
type SanityClient struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewSanityClient validates opts and builds a client.
func NewSanityClient(opts SanityOptions) (*SanityClient, error) {
	dataset := strings.TrimSpace(opts.Dataset)
	if dataset == "" {
		dataset = "production"
	}
	version := strings.TrimPrefix(strings.TrimSpace(opts.APIVersion), "v")
	if version == "" {
		return nil, fmt.Errorf("cms: sanity api version required")
	}

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		project := strings.TrimSpace(opts.ProjectID)
		if project == "" {
			return nil, fmt.Errorf("cms: sanity project id required")
		}
		host := strings.TrimSpace(opts.APIHost)
		if host == "" {
			host = "api.sanity.io"
		}
		if opts.UseCDN && strings.HasPrefix(host, "api.") {
			host = "apicdn." + strings.TrimPrefix(host, "api.")
		}
		base = "https://" + project + "." + host
	}

	endpoint, err := url.JoinPath(base, "v"+version, "data", "query", dataset)
	if err != nil {
		return nil, fmt.Errorf("cms: sanity endpoint: %w", err)
	}

	client := opts.HTTP
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultSanityTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &SanityClient{
		endpoint: endpoint,
		token:    strings.TrimSpace(opts.Token),
		http:     client,
	}, nil
}

// Endpoint returns the query URL without parameters.
func (c *SanityClient) Endpoint() string { return c.endpoint }

func (c *SanityClient) HomeData(ctx context.Context) (*RemoteHome, error) {
	raw, err := c.queryRaw(ctx, queryHome, nil)
	if err != nil {
		return nil, err
	}
	home, skipped, err := DecodeHome(raw)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		requestctx.Logger(ctx).Warn("cms home fields ignored", zap.Strings("fields", skipped))
	}
	return home, nil
}

func (c *SanityClient) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	var raw []rawMember
	if err := c.query(ctx, queryTeam, nil, &raw); err != nil {
		return nil, err
	}
	return membersFromRaw(raw), nil
}

func (c *SanityClient) Posts(ctx context.Context) ([]PostSummary, error) {
	var raw []PostSummary
	if err := c.query(ctx, queryPosts, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeSummaries(raw), nil
}

func (c *SanityClient) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var post *Post
	if err := c.query(ctx, queryPost, map[string]string{"slug": slug}, &post); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	post.PostSummary = normalizeSummary(post.PostSummary)
	return post, nil
}

func (c *SanityClient) PostSlugs(ctx context.Context) ([]string, error) {
	var raw []struct {
		Slug string `json:"slug"`
	}
	if err := c.query(ctx, querySlugs, nil, &raw); err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(r.Slug); s != "" {
			slugs = append(slugs, s)
		}
	}
	return slugs, nil
}

type queryEnvelope struct {
	Result json.RawMessage `json:"result"`
}

func (c *SanityClient) query(ctx context.Context, groq string, params map[string]string, out any) error {
	result, err := c.queryRaw(ctx, groq, params)
	if err != nil || result == nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("cms: decode result: %w", err)
	}
	return nil
}

// queryRaw runs groq and returns the undecoded result, or nil when the result is null.
func (c *SanityClient) queryRaw(ctx context.Context, groq string, params map[string]string) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("cms: sanity client not configured")
	}
	q := url.Values{}
	q.Set("query", groq)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("cms: encode param %s: %w", name, err)
		}
		q.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: query request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("cms: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cms: query status %d", resp.StatusCode)
	}

	var env queryEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("cms: decode envelope: %w", err)
	}
	if isNull(env.Result) {
		return nil, nil
	}
	return env.Result, nil
}
