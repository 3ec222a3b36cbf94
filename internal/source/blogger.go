package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
)

// Matches any blogspot country TLD (.blogspot.com, .blogspot.de,
// .blogspot.com.br, ...).
var blogspotHostRe = regexp.MustCompile(`\.blogspot\.[a-z]{2,}(\.[a-z]{2,})?$`)

// bloggerSource handles *.blogspot.* blogs, which all expose their post
// feed at a fixed path.
type bloggerSource struct{}

func newBloggerSource() *bloggerSource { return &bloggerSource{} }

func (s *bloggerSource) Type() Type { return TypeBlogger }

func (s *bloggerSource) CanHandle(_ context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return blogspotHostRe.MatchString(u.Host)
}

func (s *bloggerSource) Resolve(_ context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", rawURL)
	}
	return fmt.Sprintf("https://%s/feeds/posts/default", u.Host), nil
}
