package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ogomez92/brook-feeder/internal/config"
	"github.com/ogomez92/brook-feeder/internal/feed"
	"github.com/ogomez92/brook-feeder/internal/source"
	"github.com/ogomez92/brook-feeder/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe to a feed source",
	Long: `Subscribe to a source URL. The source type is detected automatically:
plain RSS/Atom feeds, YouTube channels, Mastodon accounts, WordPress
sites and Blogger blogs are all accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		rec, err := subscribe(cmd.Context(), cfg, store.NewFeeds(db), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added %q (%s)\n", rec.Title, rec.SourceType)
		if rec.FeedURL != rec.URL {
			fmt.Printf("Feed: %s\n", rec.FeedURL)
		}
		return nil
	},
}

// subscribe resolves a source URL to its canonical feed, validates the
// feed by fetching it once, and stores the subscription fully resolved.
func subscribe(ctx context.Context, cfg *config.Config, feeds *store.Feeds, url string) (store.FeedRecord, error) {
	exists, err := feeds.Exists(ctx, url)
	if err != nil {
		return store.FeedRecord{}, err
	}
	if exists {
		return store.FeedRecord{}, fmt.Errorf("%w: %s", store.ErrFeedExists, url)
	}

	timeout := cfg.TimeoutDuration()
	registry := source.NewRegistry(&http.Client{Timeout: timeout})
	typ, feedURL, err := registry.Detect(ctx, url)
	if err != nil {
		return store.FeedRecord{}, err
	}

	title, _, err := feed.NewFetcher(timeout).Fetch(ctx, feedURL)
	if err != nil {
		return store.FeedRecord{}, err
	}

	rec, err := feeds.Add(ctx, url)
	if err != nil {
		return store.FeedRecord{}, err
	}
	if err := feeds.UpdateResolution(ctx, rec.ID, feedURL, title, string(typ)); err != nil {
		return store.FeedRecord{}, err
	}
	rec.FeedURL = feedURL
	rec.Title = title
	rec.SourceType = string(typ)
	return rec, nil
}

// isDuplicate tells `import` apart from real failures.
func isDuplicate(err error) bool {
	return errors.Is(err, store.ErrFeedExists)
}
