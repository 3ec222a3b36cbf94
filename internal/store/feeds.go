package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFeedExists is returned by Add for a URL that is already subscribed.
var ErrFeedExists = errors.New("feed already exists")

// FeedRecord is a configured subscription. FeedURL, Title and SourceType
// stay empty until the first successful resolution; they are set at most
// once and reused on every later run.
type FeedRecord struct {
	ID         int64
	URL        string // as entered by the user
	FeedURL    string // canonical feed endpoint
	Title      string
	SourceType string
	CreatedAt  time.Time
}

// Resolved reports whether the record carries a canonical endpoint.
func (f FeedRecord) Resolved() bool { return f.FeedURL != "" }

// Feeds is the subscription repository.
type Feeds struct {
	s *Store
}

func NewFeeds(s *Store) *Feeds { return &Feeds{s: s} }

func (f *Feeds) Add(ctx context.Context, url string) (FeedRecord, error) {
	exists, err := f.Exists(ctx, url)
	if err != nil {
		return FeedRecord{}, err
	}
	if exists {
		return FeedRecord{}, fmt.Errorf("%w: %s", ErrFeedExists, url)
	}

	now := time.Now().UTC()
	res, err := f.s.writeDB.ExecContext(ctx,
		`INSERT INTO feeds (url, created_at) VALUES (?, ?)`, url, now)
	if err != nil {
		return FeedRecord{}, fmt.Errorf("inserting feed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return FeedRecord{}, fmt.Errorf("inserting feed: %w", err)
	}
	return FeedRecord{ID: id, URL: url, CreatedAt: now}, nil
}

// UpdateResolution memoizes the outcome of source detection. It is only
// called once per feed; re-running it with the same values is harmless.
func (f *Feeds) UpdateResolution(ctx context.Context, id int64, feedURL, title, sourceType string) error {
	_, err := f.s.writeDB.ExecContext(ctx,
		`UPDATE feeds SET feed_url = ?, title = ?, source_type = ? WHERE id = ?`,
		feedURL, title, sourceType, id)
	if err != nil {
		return fmt.Errorf("updating resolution: %w", err)
	}
	return nil
}

func (f *Feeds) Remove(ctx context.Context, id int64) error {
	_, err := f.s.writeDB.ExecContext(ctx, `DELETE FROM feeds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing feed: %w", err)
	}
	return nil
}

func (f *Feeds) List(ctx context.Context) ([]FeedRecord, error) {
	rows, err := f.s.readDB.QueryContext(ctx,
		`SELECT id, url, feed_url, title, source_type, created_at
		 FROM feeds ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing feeds: %w", err)
	}
	defer rows.Close()

	var out []FeedRecord
	for rows.Next() {
		var r FeedRecord
		if err := rows.Scan(&r.ID, &r.URL, &r.FeedURL, &r.Title, &r.SourceType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (f *Feeds) Exists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := f.s.readDB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM feeds WHERE url = ?)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking feed: %w", err)
	}
	return exists, nil
}
