package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

var (
	ytChannelPathRe = regexp.MustCompile(`youtube\.com/channel/(UC[\w-]{22})`)
	ytMetaRe        = regexp.MustCompile(`itemprop="channelId"\s+content="(UC[\w-]{22})"`)
	ytJSONRe        = regexp.MustCompile(`"channelId":"(UC[\w-]{22})"`)
	ytAnyChannelRe  = regexp.MustCompile(`channel/(UC[\w-]{22})`)
)

// Tab suffixes users paste along with a channel URL.
var ytTabPaths = []string{
	"/videos", "/shorts", "/streams", "/playlists",
	"/community", "/channels", "/about", "/featured",
}

type youTubeSource struct {
	client *http.Client
}

func newYouTubeSource(client *http.Client) *youTubeSource {
	return &youTubeSource{client: client}
}

func (s *youTubeSource) Type() Type { return TypeYouTube }

func (s *youTubeSource) CanHandle(_ context.Context, rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com/channel/") ||
		strings.Contains(rawURL, "youtube.com/@") ||
		strings.Contains(rawURL, "youtube.com/c/") ||
		strings.Contains(rawURL, "youtube.com/user/")
}

func (s *youTubeSource) Resolve(ctx context.Context, rawURL string) (string, error) {
	channelID, err := s.channelID(ctx, normalizeChannelURL(rawURL))
	if err != nil {
		return "", err
	}
	return videoFeedURL(channelID), nil
}

func (s *youTubeSource) channelID(ctx context.Context, channelURL string) (string, error) {
	if m := ytChannelPathRe.FindStringSubmatch(channelURL); m != nil {
		return m[1], nil
	}
	if strings.Contains(channelURL, "/@") ||
		strings.Contains(channelURL, "/c/") ||
		strings.Contains(channelURL, "/user/") {
		return s.scrapeChannelID(ctx, channelURL)
	}
	return "", ErrChannelIDNotFound
}

// scrapeChannelID fetches the channel page and looks for the channel
// identifier in the places YouTube embeds it.
func (s *youTubeSource) scrapeChannelID(ctx context.Context, channelURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("channel page returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if id := extractChannelID(string(body)); id != "" {
		return id, nil
	}
	return "", ErrChannelIDNotFound
}

func extractChannelID(page string) string {
	for _, re := range []*regexp.Regexp{ytMetaRe, ytJSONRe, ytAnyChannelRe} {
		if m := re.FindStringSubmatch(page); m != nil {
			return m[1]
		}
	}
	return ""
}

// normalizeChannelURL strips tab paths:
// https://youtube.com/@user/videos -> https://youtube.com/@user
func normalizeChannelURL(rawURL string) string {
	rawURL = strings.TrimSuffix(rawURL, "/")
	for _, p := range ytTabPaths {
		if strings.HasSuffix(rawURL, p) {
			return rawURL[:len(rawURL)-len(p)]
		}
	}
	return rawURL
}

func videoFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}
