// Package notify formats article notifications and delivers them to a
// Notebrook channel.
package notify

import (
	"strings"

	"github.com/ogomez92/brook-feeder/internal/feed"
)

// Notification is one outbound message about a newly seen article.
type Notification struct {
	FeedTitle    string
	ArticleTitle string
	Text         string
	Links        []string
}

func FromArticle(feedTitle string, a feed.Article) Notification {
	return Notification{
		FeedTitle:    feedTitle,
		ArticleTitle: a.Title,
		Text:         a.Summary,
		Links:        a.Links,
	}
}

// Format renders "{feedTitle} {articleTitle}: {text} {links}". The colon
// and text are omitted when there is no text; links are appended
// space-separated when present.
func (n Notification) Format() string {
	var b strings.Builder
	b.WriteString(n.FeedTitle)
	b.WriteString(" ")
	b.WriteString(n.ArticleTitle)
	if n.Text != "" {
		b.WriteString(": ")
		b.WriteString(n.Text)
	}
	if len(n.Links) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(n.Links, " "))
	}
	return b.String()
}
