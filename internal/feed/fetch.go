package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultTimeout = 30 * time.Second
	maxTitleLen    = 200
	maxSummaryLen  = 500
)

// FetchError reports a network-level failure: connection error, timeout,
// non-success HTTP status or an empty response body.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetching %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports content that does not conform to a recognized
// syndication format. A feed that fails to parse yields no articles at
// all; partial lists are never returned.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing %s: %v", e.URL, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Fetcher retrieves a resolved feed endpoint and maps its items to
// Articles.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses the feed at feedURL, returning the feed
// title and its full item list.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, []Article, error) {
	body, err := f.get(ctx, feedURL)
	if err != nil {
		return "", nil, err
	}

	parsed, err := f.parser.ParseString(body)
	if err != nil {
		return "", nil, &ParseError{URL: feedURL, Err: err}
	}

	title := parsed.Title
	if title == "" {
		title = "Untitled Feed"
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, itemToArticle(item))
	}
	return title, articles, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", &FetchError{URL: url, Err: fmt.Errorf("empty response body")}
	}
	return string(body), nil
}

func itemToArticle(item *gofeed.Item) Article {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = truncate(stripHTML(summary), maxSummaryLen)

	title := item.Title
	if title == "" {
		// Mastodon posts carry no title; derive one from the body.
		title = truncate(stripHTML(firstNonEmpty(item.Content, item.Description)), maxTitleLen)
		if title == "" {
			title = "Untitled"
		}
	}

	links := item.Links
	if len(links) == 0 && item.Link != "" {
		links = []string{item.Link}
	}

	id := item.GUID
	if id == "" {
		id = articleID(item.Link, title)
	}

	var published *time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed
	}

	return Article{
		ID:        id,
		Title:     title,
		Link:      item.Link,
		Summary:   summary,
		Links:     links,
		Published: published,
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
