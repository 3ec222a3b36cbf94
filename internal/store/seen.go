package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogomez92/brook-feeder/internal/feed"
)

// Seen is the dedup cache: the persisted set of (feedTitle, articleID)
// keys that have been notified. Presence of a key means the article must
// never be notified again by this installation. Rows are never updated
// or deleted here.
type Seen struct {
	s *Store
}

func NewSeen(s *Store) *Seen { return &Seen{s: s} }

// filterChunkSize keeps each IN query well under SQLite's bound-variable
// limit.
const filterChunkSize = 500

// FilterNew returns the articles whose key is absent from the cache,
// preserving input order. Pure read.
func (c *Seen) FilterNew(ctx context.Context, feedTitle string, articles []feed.Article) ([]feed.Article, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(articles))
	for start := 0; start < len(articles); start += filterChunkSize {
		end := start + filterChunkSize
		if end > len(articles) {
			end = len(articles)
		}
		if err := c.querySeen(ctx, feedTitle, articles[start:end], seen); err != nil {
			return nil, err
		}
	}

	var out []feed.Article
	for _, a := range articles {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *Seen) querySeen(ctx context.Context, feedTitle string, articles []feed.Article, seen map[string]bool) error {
	placeholders := make([]string, len(articles))
	args := make([]any, 0, len(articles)+1)
	args = append(args, feedTitle)
	for i, a := range articles {
		placeholders[i] = "?"
		args = append(args, a.ID)
	}

	query := `SELECT article_id FROM notified_articles
		WHERE feed_title = ? AND article_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := c.s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("reading notified cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("reading notified cache: %w", err)
		}
		seen[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading notified cache: %w", err)
	}
	return nil
}

// Mark records the given articles as notified. Inserting an
// already-present key is a no-op, which makes whole runs safe to repeat
// after a crash.
func (c *Seen) Mark(ctx context.Context, feedTitle string, articles []feed.Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := c.s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("marking notified: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO notified_articles (feed_title, article_id, notified_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("marking notified: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, a := range articles {
		if _, err := stmt.ExecContext(ctx, feedTitle, a.ID, now); err != nil {
			return fmt.Errorf("marking %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}
