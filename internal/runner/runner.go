// Package runner drives the per-feed cycle: resolve (once), fetch, diff
// against the notified cache, dispatch, record.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/ogomez92/brook-feeder/internal/feed"
	"github.com/ogomez92/brook-feeder/internal/notify"
	"github.com/ogomez92/brook-feeder/internal/source"
	"github.com/ogomez92/brook-feeder/internal/store"
)

// Mode selects what happens after diffing.
type Mode int

const (
	// Normal dispatches every new article and records only confirmed
	// sends.
	Normal Mode = iota
	// DryRun computes and reports the diff; neither dispatch nor
	// record runs.
	DryRun
	// SkipNotify records the full new-article set without dispatching.
	// This is the backlog-seeding path for freshly added feeds.
	SkipNotify
)

// Collaborator contracts. The sqlite repositories satisfy these; tests
// substitute fakes.
type FeedLister interface {
	List(ctx context.Context) ([]store.FeedRecord, error)
	UpdateResolution(ctx context.Context, id int64, feedURL, title, sourceType string) error
}

type SeenCache interface {
	FilterNew(ctx context.Context, feedTitle string, articles []feed.Article) ([]feed.Article, error)
	Mark(ctx context.Context, feedTitle string, articles []feed.Article) error
}

type Resolver interface {
	Detect(ctx context.Context, rawURL string) (source.Type, string, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, []feed.Article, error)
}

// FeedResult is the terminal state of one feed's cycle.
type FeedResult struct {
	Feed     store.FeedRecord
	Title    string // feed title as fetched (falls back to the URL on failure)
	Found    int    // articles in the fetched document
	New      []notify.Notification
	Notified int
	SendFail int
	Err      error

	// fatal marks a cache-read failure: dedup correctness cannot be
	// assumed, so the whole run must fail, not just this feed.
	fatal bool
}

func (r FeedResult) Failed() bool { return r.Err != nil }

// Report aggregates one run.
type Report struct {
	Results []FeedResult
}

func (r Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

func (r Report) TotalNew() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.New)
	}
	return n
}

func (r Report) TotalNotified() int {
	n := 0
	for _, res := range r.Results {
		n += res.Notified
	}
	return n
}

type Runner struct {
	feeds    FeedLister
	seen     SeenCache
	resolver Resolver
	fetcher  Fetcher
	notifier notify.Notifier
	workers  int
}

func New(feeds FeedLister, seen SeenCache, resolver Resolver, fetcher Fetcher, notifier notify.Notifier, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		feeds:    feeds,
		seen:     seen,
		resolver: resolver,
		fetcher:  fetcher,
		notifier: notifier,
		workers:  workers,
	}
}

// Run executes one cycle for every subscribed feed. Feed failures are
// isolated: they land in the report, not in the returned error. The
// error is non-nil only when the run itself cannot be trusted (feed
// listing or cache reads failing).
func (r *Runner) Run(ctx context.Context, mode Mode) (Report, error) {
	feeds, err := r.feeds.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing feeds: %w", err)
	}

	results := make([]FeedResult, len(feeds))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup
	for i, rec := range feeds {
		wg.Add(1)
		go func(i int, rec store.FeedRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.runFeed(ctx, rec, mode)
		}(i, rec)
	}
	wg.Wait()

	report := Report{Results: results}
	for _, res := range results {
		if res.fatal {
			return report, fmt.Errorf("feed %s: %w", res.Feed.URL, res.Err)
		}
	}
	return report, nil
}

func (r *Runner) runFeed(ctx context.Context, rec store.FeedRecord, mode Mode) FeedResult {
	res := FeedResult{Feed: rec, Title: rec.Title}
	if res.Title == "" {
		res.Title = rec.URL
	}

	feedURL := rec.FeedURL
	var resolvedType source.Type
	if !rec.Resolved() {
		typ, url, err := r.resolver.Detect(ctx, rec.URL)
		if err != nil {
			res.Err = err
			return res
		}
		feedURL = url
		resolvedType = typ
	}

	title, articles, err := r.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		res.Err = err
		return res
	}
	res.Title = title
	res.Found = len(articles)

	// Memoize the resolution so later runs skip detection (and its
	// network probes) entirely.
	if !rec.Resolved() {
		if err := r.feeds.UpdateResolution(ctx, rec.ID, feedURL, title, string(resolvedType)); err != nil {
			res.Err = err
			return res
		}
	}

	// Dedup keys and message prefixes use the title memoized at first
	// resolution. An upstream rename must not invalidate existing keys,
	// or the whole backlog would be re-notified.
	cacheTitle := rec.Title
	if cacheTitle == "" {
		cacheTitle = title
	}

	fresh, err := r.seen.FilterNew(ctx, cacheTitle, articles)
	if err != nil {
		res.Err = err
		res.fatal = true
		return res
	}
	for _, a := range fresh {
		res.New = append(res.New, notify.FromArticle(cacheTitle, a))
	}

	switch mode {
	case DryRun:
		// Diff is reported; cache and dispatcher are untouched.
		return res

	case SkipNotify:
		if err := r.seen.Mark(ctx, cacheTitle, fresh); err != nil {
			res.Err = err
		}
		return res

	default:
		sent := make([]feed.Article, 0, len(fresh))
		for _, a := range fresh {
			msg := notify.FromArticle(cacheTitle, a).Format()
			if err := r.notifier.Send(ctx, msg); err != nil {
				// Leave the article unmarked so the next run
				// retries it; keep going with the rest.
				res.SendFail++
				continue
			}
			res.Notified++
			sent = append(sent, a)
		}
		if err := r.seen.Mark(ctx, cacheTitle, sent); err != nil {
			res.Err = err
		}
		return res
	}
}
