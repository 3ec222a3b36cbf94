package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// wordPressSource detects WordPress sites via the wp-json discovery
// endpoint and resolves them to the site's default feed path.
type wordPressSource struct {
	client *http.Client
}

func newWordPressSource(client *http.Client) *wordPressSource {
	return &wordPressSource{client: client}
}

func (s *wordPressSource) Type() Type { return TypeWordPress }

func (s *wordPressSource) CanHandle(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.HasSuffix(u.Host, "wordpress.com") {
		return true
	}
	return s.hasWPJSON(ctx, u.Scheme+"://"+u.Host)
}

// hasWPJSON probes <root>/wp-json/ with HEAD, falling back to GET for
// servers that reject HEAD.
func (s *wordPressSource) hasWPJSON(ctx context.Context, root string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, root+"/wp-json/", nil)
		if err != nil {
			return false
		}
		resp, err := s.client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return true
		}
	}
	return false
}

func (s *wordPressSource) Resolve(_ context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", rawURL)
	}
	return fmt.Sprintf("%s://%s/feed/", u.Scheme, u.Host), nil
}
