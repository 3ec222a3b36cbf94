package opml

import (
	"strings"
	"testing"

	"github.com/ogomez92/brook-feeder/internal/store"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="Tech">
      <outline text="Example" type="rss" xmlUrl="https://example.com/feed.xml" htmlUrl="https://example.com"/>
      <outline text="Nested" type="rss" xmlUrl="https://nested.example/rss"/>
    </outline>
    <outline text="Someone" type="rss" xmlUrl="@someone@fosstodon.org"/>
  </body>
</opml>`

func TestExtractURLs(t *testing.T) {
	urls, err := ExtractURLs([]byte(sampleOPML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{
		"https://example.com/feed.xml",
		"https://nested.example/rss",
		"https://fosstodon.org/@someone",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestExtractURLsBadDocument(t *testing.T) {
	if _, err := ExtractURLs([]byte("not xml at all <")); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"@user@mastodon.social", "https://mastodon.social/@user"},
		{"https://example.com/feed", "https://example.com/feed"},
		{"@bad", "@bad"},
	}
	for _, tt := range tests {
		if got := NormalizeHandle(tt.in); got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportRoundTrip(t *testing.T) {
	feeds := []store.FeedRecord{
		{URL: "https://example.com", FeedURL: "https://example.com/feed.xml", Title: "Example"},
		{URL: "https://mastodon.social/@Gargron", FeedURL: "https://mastodon.social/users/Gargron.rss", Title: "Eugen"},
	}

	out, err := Export(feeds)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, `xmlUrl="https://example.com/feed.xml"`) {
		t.Errorf("missing feed url in output:\n%s", out)
	}

	urls, err := ExtractURLs([]byte(out))
	if err != nil {
		t.Fatalf("re-parsing exported OPML: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls after round trip, got %d", len(urls))
	}
}
