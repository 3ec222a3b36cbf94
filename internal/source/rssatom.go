package source

import (
	"context"
	"io"
	"net/http"

	"github.com/mmcdole/gofeed"
)

// rssAtomSource accepts any URL that already serves parseable
// syndication content. Its predicate is a content sniff: a direct GET
// of the raw URL that parses as a feed wins, and resolution is the
// identity.
type rssAtomSource struct {
	client *http.Client
	parser *gofeed.Parser
}

func newRSSAtomSource(client *http.Client) *rssAtomSource {
	return &rssAtomSource{client: client, parser: gofeed.NewParser()}
}

func (s *rssAtomSource) Type() Type { return TypeRSSAtom }

func (s *rssAtomSource) CanHandle(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	_, err = s.parser.ParseString(string(body))
	return err == nil
}

func (s *rssAtomSource) Resolve(ctx context.Context, rawURL string) (string, error) {
	return rawURL, nil
}
