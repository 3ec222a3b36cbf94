// Package source turns raw user-supplied URLs into canonical feed
// endpoints. Each supported platform dialect is a Source; a Registry
// tries them in a fixed priority order so detection is deterministic
// even though the individual predicates overlap.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Type tags the platform dialect a feed was detected as.
type Type string

const (
	TypeRSSAtom   Type = "rss_atom"
	TypeYouTube   Type = "youtube"
	TypeMastodon  Type = "mastodon"
	TypeWordPress Type = "wordpress"
	TypeBlogger   Type = "blogger"
)

// ParseType maps a stored source_type string back to a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRSSAtom, TypeYouTube, TypeMastodon, TypeWordPress, TypeBlogger:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown source type %q", s)
}

// Source is one URL dialect. CanHandle may perform network I/O (the
// rss sniff and the WordPress probe do), which is why resolution results
// are memoized onto the stored feed record instead of re-run every cycle.
type Source interface {
	Type() Type
	CanHandle(ctx context.Context, rawURL string) bool
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// ErrChannelIDNotFound means a YouTube URL was recognized but the
// channel identifier could not be located on the channel page.
var ErrChannelIDNotFound = errors.New("channel ID not found")

// UnsupportedSourceError means no variant matched the URL, or the
// matched variant's own resolution step failed.
type UnsupportedSourceError struct {
	URL string
	Err error
}

func (e *UnsupportedSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported source %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unsupported source %s", e.URL)
}

func (e *UnsupportedSourceError) Unwrap() error { return e.Err }

// Registry holds the variants in priority order.
type Registry struct {
	sources []Source
}

// NewRegistry builds the standard variant list. Order matters: the rss
// content sniff accepts a URL that already serves a feed unchanged, the
// platform dialects follow, and anything left over is unsupported.
func NewRegistry(client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registry{
		sources: []Source{
			newRSSAtomSource(client),
			newYouTubeSource(client),
			newMastodonSource(),
			newWordPressSource(client),
			newBloggerSource(),
		},
	}
}

// match returns the first variant whose predicate accepts the URL.
func (r *Registry) match(ctx context.Context, rawURL string) Source {
	for _, s := range r.sources {
		if s.CanHandle(ctx, rawURL) {
			return s
		}
	}
	return nil
}

// Detect finds the variant for rawURL and resolves it to a canonical
// feed endpoint. Resolving the same URL twice yields the same endpoint.
func (r *Registry) Detect(ctx context.Context, rawURL string) (Type, string, error) {
	s := r.match(ctx, rawURL)
	if s == nil {
		return "", "", &UnsupportedSourceError{URL: rawURL}
	}
	feedURL, err := s.Resolve(ctx, rawURL)
	if err != nil {
		return "", "", &UnsupportedSourceError{URL: rawURL, Err: err}
	}
	return s.Type(), feedURL, nil
}
