// Package store keeps authored content as JSON documents in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vineai/website/internal/cms"
)

// Document types.
const (
	TypeHome = "homePage"
	TypeTeam = "team"
	TypePost = "post"
)

const homeID = "homePage"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id   TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	slug TEXT,
	ord  INTEGER NOT NULL DEFAULT 0,
	date TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(type);
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_post_slug ON documents(slug) WHERE type = 'post';
`

// Document is a single stored record.
type Document struct {
	ID   string
	Type string
	Slug string
	Ord  int
	Date string
	Body any
}

// Store is a cms.Source backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ cms.Source = (*Store)(nil)

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Put inserts or replaces documents in a single transaction.
func (s *Store) Put(ctx context.Context, docs ...Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, type, slug, ord, date, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			slug = excluded.slug,
			ord  = excluded.ord,
			date = excluded.date,
			body = excluded.body`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc.ID == "" || doc.Type == "" {
			return fmt.Errorf("store: document id and type required")
		}
		body, err := json.Marshal(doc.Body)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", doc.ID, err)
		}
		var slug sql.NullString
		if doc.Slug != "" {
			slug = sql.NullString{String: doc.Slug, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Type, slug, doc.Ord, doc.Date, string(body)); err != nil {
			return fmt.Errorf("store: upsert %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// Delete removes documents by id.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
			return fmt.Errorf("store: delete %s: %w", id, err)
		}
	}
	return nil
}

// Seed writes the given content as documents, replacing documents with the same ids.
func (s *Store) Seed(ctx context.Context, d *cms.Defaults) (int, error) {
	if d == nil {
		return 0, errors.New("store: nothing to seed")
	}
	docs := make([]Document, 0, 1+len(d.Team)+len(d.Posts))
	docs = append(docs, Document{ID: homeID, Type: TypeHome, Body: d.Home})
	for _, m := range d.Team {
		docs = append(docs, Document{ID: m.ID, Type: TypeTeam, Ord: m.Order, Body: m})
	}
	for _, p := range d.Posts {
		id := p.ID
		if id == "" {
			id = "post-" + p.Slug
		}
		docs = append(docs, Document{ID: id, Type: TypePost, Slug: p.Slug, Date: p.Date, Body: p})
	}
	if err := s.Put(ctx, docs...); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *Store) HomeData(ctx context.Context) (*cms.RemoteHome, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE type = ? ORDER BY id LIMIT 1`, TypeHome).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: query home: %w", err)
	}
	home, _, err := cms.DecodeHome([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("store: decode home: %w", err)
	}
	return home, nil
}

func (s *Store) TeamMembers(ctx context.Context) ([]cms.TeamMember, error) {
	bodies, err := s.bodies(ctx, `SELECT body FROM documents WHERE type = ? ORDER BY ord ASC, id ASC`, TypeTeam)
	if err != nil {
		return nil, err
	}
	members := make([]cms.TeamMember, 0, len(bodies))
	for _, body := range bodies {
		var m cms.TeamMember
		if err := json.Unmarshal([]byte(body), &m); err != nil {
			return nil, fmt.Errorf("store: decode team member: %w", err)
		}
		members = append(members, m.WithSchemaDefaults())
	}
	return members, nil
}

func (s *Store) Posts(ctx context.Context) ([]cms.PostSummary, error) {
	bodies, err := s.bodies(ctx, `SELECT body FROM documents WHERE type = ? ORDER BY date DESC, id ASC`, TypePost)
	if err != nil {
		return nil, err
	}
	posts := make([]cms.PostSummary, 0, len(bodies))
	for _, body := range bodies {
		var p cms.PostSummary
		if err := json.Unmarshal([]byte(body), &p); err != nil {
			return nil, fmt.Errorf("store: decode post: %w", err)
		}
		p.Category = cms.NormalizeCategory(p.Category)
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *Store) PostBySlug(ctx context.Context, slug string) (*cms.Post, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE type = ? AND slug = ?`, TypePost, slug).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: query post %q: %w", slug, err)
	}
	var post cms.Post
	if err := json.Unmarshal([]byte(body), &post); err != nil {
		return nil, fmt.Errorf("store: decode post %q: %w", slug, err)
	}
	post.Category = cms.NormalizeCategory(post.Category)
	return &post, nil
}

func (s *Store) PostSlugs(ctx context.Context) ([]string, error) {
	return s.bodies(ctx, `SELECT slug FROM documents WHERE type = ? AND slug IS NOT NULL AND slug <> '' ORDER BY date DESC`, TypePost)
}

func (s *Store) bodies(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: rows: %w", err)
	}
	return out, nil
}
