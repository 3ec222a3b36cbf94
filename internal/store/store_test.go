package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ogomez92/brook-feeder/internal/feed"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndListFeeds(t *testing.T) {
	s := testStore(t)
	feeds := NewFeeds(s)
	ctx := context.Background()

	rec, err := feeds.Add(ctx, "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected non-zero id")
	}
	if rec.Resolved() {
		t.Error("fresh record should be unresolved")
	}

	all, err := feeds.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].URL != "https://example.com/feed.xml" {
		t.Fatalf("unexpected list: %+v", all)
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	s := testStore(t)
	feeds := NewFeeds(s)
	ctx := context.Background()

	if _, err := feeds.Add(ctx, "https://example.com/feed.xml"); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := feeds.Add(ctx, "https://example.com/feed.xml")
	if !errors.Is(err, ErrFeedExists) {
		t.Fatalf("expected ErrFeedExists, got %v", err)
	}
}

func TestUpdateResolution(t *testing.T) {
	s := testStore(t)
	feeds := NewFeeds(s)
	ctx := context.Background()

	rec, err := feeds.Add(ctx, "https://mastodon.social/@Gargron")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	err = feeds.UpdateResolution(ctx, rec.ID, "https://mastodon.social/users/Gargron.rss", "Eugen", "mastodon")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := feeds.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := all[0]
	if !got.Resolved() || got.FeedURL != "https://mastodon.social/users/Gargron.rss" {
		t.Errorf("resolution not persisted: %+v", got)
	}
	if got.Title != "Eugen" || got.SourceType != "mastodon" {
		t.Errorf("metadata not persisted: %+v", got)
	}
}

func TestRemoveFeed(t *testing.T) {
	s := testStore(t)
	feeds := NewFeeds(s)
	ctx := context.Background()

	rec, err := feeds.Add(ctx, "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := feeds.Remove(ctx, rec.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	exists, err := feeds.Exists(ctx, "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("feed should be gone")
	}
}

func sampleArticles() []feed.Article {
	return []feed.Article{
		{ID: "a", Title: "A", Link: "https://x.test/a"},
		{ID: "b", Title: "B", Link: "https://x.test/b"},
		{ID: "c", Title: "C", Link: "https://x.test/c"},
	}
}

func TestFilterNewAndMark(t *testing.T) {
	s := testStore(t)
	seen := NewSeen(s)
	ctx := context.Background()
	articles := sampleArticles()

	fresh, err := seen.FilterNew(ctx, "Blog", articles)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != 3 {
		t.Fatalf("expected all 3 new, got %d", len(fresh))
	}

	if err := seen.Mark(ctx, "Blog", articles[:2]); err != nil {
		t.Fatalf("mark: %v", err)
	}

	fresh, err = seen.FilterNew(ctx, "Blog", articles)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != "c" {
		t.Fatalf("expected only c, got %+v", fresh)
	}
}

func TestMarkIdempotent(t *testing.T) {
	s := testStore(t)
	seen := NewSeen(s)
	ctx := context.Background()
	articles := sampleArticles()

	if err := seen.Mark(ctx, "Blog", articles); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := seen.Mark(ctx, "Blog", articles); err != nil {
		t.Fatalf("second mark should be a no-op, got: %v", err)
	}

	_, notified, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if notified != 3 {
		t.Errorf("expected 3 cache rows, got %d", notified)
	}
}

func TestFilterNewKeyedByFeedTitle(t *testing.T) {
	s := testStore(t)
	seen := NewSeen(s)
	ctx := context.Background()
	articles := sampleArticles()

	if err := seen.Mark(ctx, "Blog A", articles); err != nil {
		t.Fatalf("mark: %v", err)
	}

	// Same article IDs under a different feed title are still new.
	fresh, err := seen.FilterNew(ctx, "Blog B", articles)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != 3 {
		t.Errorf("keys must be scoped per feed title, got %d new", len(fresh))
	}
}

func TestFilterNewLargeDocument(t *testing.T) {
	s := testStore(t)
	seen := NewSeen(s)
	ctx := context.Background()

	// Well past one query chunk, so the lookup spans several batches.
	n := 2*filterChunkSize + 37
	articles := make([]feed.Article, n)
	for i := range articles {
		articles[i] = feed.Article{ID: fmt.Sprintf("id-%04d", i)}
	}

	if err := seen.Mark(ctx, "Big", articles[:n/2]); err != nil {
		t.Fatalf("mark: %v", err)
	}

	fresh, err := seen.FilterNew(ctx, "Big", articles)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != n-n/2 {
		t.Fatalf("expected %d new, got %d", n-n/2, len(fresh))
	}
	// Input order survives chunking.
	if fresh[0].ID != articles[n/2].ID || fresh[len(fresh)-1].ID != articles[n-1].ID {
		t.Errorf("order not preserved: first %s last %s", fresh[0].ID, fresh[len(fresh)-1].ID)
	}
}

func TestFilterNewEmptyInput(t *testing.T) {
	s := testStore(t)
	seen := NewSeen(s)

	fresh, err := seen.FilterNew(context.Background(), "Blog", nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("expected no articles, got %d", len(fresh))
	}
}
