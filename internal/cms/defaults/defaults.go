// Package defaults loads the static fallback content shipped with the site.
package defaults

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"reflect"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/vineai/website/internal/cms"
)

//go:embed content
var embedded embed.FS

const (
	homeFile = "home.yaml"
	teamFile = "team.yaml"
	postsDir = "posts"
)

// Embedded exposes the compiled-in content directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		panic(fmt.Sprintf("defaults: embedded content: %v", err))
	}
	return sub
}

// MustLoad loads the embedded defaults and panics if they are incomplete.
func MustLoad() *cms.Defaults {
	d, err := Load(Embedded())
	if err != nil {
		panic(err)
	}
	return d
}

// LoadDir loads defaults from an on-disk directory with the same layout as the embedded one.
func LoadDir(dir string) (*cms.Defaults, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("defaults: directory required")
	}
	return Load(os.DirFS(dir))
}

// Load reads home.yaml, team.yaml and posts/*.md from fsys and validates that every field is set.
func Load(fsys fs.FS) (*cms.Defaults, error) {
	home, err := loadHome(fsys)
	if err != nil {
		return nil, err
	}
	team, err := loadTeam(fsys)
	if err != nil {
		return nil, err
	}
	posts, err := loadPosts(fsys)
	if err != nil {
		return nil, err
	}
	return &cms.Defaults{Home: home, Team: team, Posts: posts}, nil
}

func loadHome(fsys fs.FS) (cms.HomeContent, error) {
	var home cms.HomeContent
	if err := decodeYAML(fsys, homeFile, &home); err != nil {
		return home, err
	}
	if missing := missingFields(reflect.ValueOf(home), "home"); len(missing) > 0 {
		return home, fmt.Errorf("defaults: %s incomplete: %s", homeFile, strings.Join(missing, ", "))
	}
	return home, nil
}

func loadTeam(fsys fs.FS) ([]cms.TeamMember, error) {
	var doc struct {
		Members []cms.TeamMember `yaml:"members"`
	}
	if err := decodeYAML(fsys, teamFile, &doc); err != nil {
		return nil, err
	}
	if len(doc.Members) == 0 {
		return nil, fmt.Errorf("defaults: %s has no members", teamFile)
	}
	seen := make(map[string]struct{}, len(doc.Members))
	for i, m := range doc.Members {
		if missing := missingFields(reflect.ValueOf(m), fmt.Sprintf("members[%d]", i)); len(missing) > 0 {
			return nil, fmt.Errorf("defaults: %s incomplete: %s", teamFile, strings.Join(missing, ", "))
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("defaults: duplicate team member id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	slices.SortStableFunc(doc.Members, func(a, b cms.TeamMember) int { return a.Order - b.Order })
	return doc.Members, nil
}

type postFrontMatter struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Slug       string `yaml:"slug"`
	Category   string `yaml:"category"`
	Excerpt    string `yaml:"excerpt"`
	TimeToRead string `yaml:"timeToRead"`
	Date       string `yaml:"date"`
	Featured   bool   `yaml:"featured"`
}

func loadPosts(fsys fs.FS) ([]cms.Post, error) {
	names, err := fs.Glob(fsys, path.Join(postsDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("defaults: list posts: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("defaults: no posts in %s", postsDir)
	}

	posts := make([]cms.Post, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		post, err := loadPost(fsys, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[post.Slug]; dup {
			return nil, fmt.Errorf("defaults: duplicate post slug %q", post.Slug)
		}
		seen[post.Slug] = struct{}{}
		posts = append(posts, post)
	}
	slices.SortStableFunc(posts, func(a, b cms.Post) int { return strings.Compare(b.Date, a.Date) })
	return posts, nil
}

func loadPost(fsys fs.FS, name string) (cms.Post, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return cms.Post{}, fmt.Errorf("defaults: read %s: %w", name, err)
	}
	var meta postFrontMatter
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &meta)
	if err != nil {
		return cms.Post{}, fmt.Errorf("defaults: front matter %s: %w", name, err)
	}
	if meta.Slug == "" {
		meta.Slug = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}

	post := cms.Post{
		PostSummary: cms.PostSummary{
			ID:         meta.ID,
			Title:      meta.Title,
			Slug:       meta.Slug,
			Category:   cms.NormalizeCategory(meta.Category),
			Excerpt:    meta.Excerpt,
			TimeToRead: meta.TimeToRead,
			Date:       meta.Date,
			Featured:   meta.Featured,
		},
		Content: parseBlocks(body),
	}
	if missing := missingFields(reflect.ValueOf(post.PostSummary), name); len(missing) > 0 {
		return cms.Post{}, fmt.Errorf("defaults: %s incomplete: %s", name, strings.Join(missing, ", "))
	}
	if !post.HasContent() {
		return cms.Post{}, fmt.Errorf("defaults: %s has an empty body", name)
	}
	return post, nil
}

func decodeYAML(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("defaults: read %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("defaults: decode %s: %w", name, err)
	}
	return nil
}

// missingFields lists the empty strings and empty slices reachable from v. Booleans and numbers
// are not checked.
func missingFields(v reflect.Value, prefix string) []string {
	var out []string
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			out = append(out, missingFields(v.Field(i), prefix+"."+field.Name)...)
		}
	case reflect.Slice:
		if v.Len() == 0 {
			return []string{prefix}
		}
		for i := 0; i < v.Len(); i++ {
			out = append(out, missingFields(v.Index(i), fmt.Sprintf("%s[%d]", prefix, i))...)
		}
	case reflect.String:
		if strings.TrimSpace(v.String()) == "" {
			return []string{prefix}
		}
	}
	return out
}
