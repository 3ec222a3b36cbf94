// Package feed fetches syndication content and maps it to the article
// model used by the rest of the pipeline.
package feed

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Article is a single fetched item. Articles are ephemeral: they live for
// one fetch cycle and are never stored as rows, only their dedup keys are.
type Article struct {
	// ID is the feed-provided GUID when present, otherwise a
	// deterministic hash of link+title. It must not depend on fetch
	// time or fetch order.
	ID        string
	Title     string
	Link      string
	Summary   string
	Links     []string
	Published *time.Time
}

// articleID derives a stable identifier for items without a GUID.
func articleID(link, title string) string {
	h := sha256.Sum256([]byte(link + "\x00" + title))
	return fmt.Sprintf("%x", h[:16])
}

// stripHTML removes tags and collapses whitespace. Good enough for feed
// summaries; we never render the result as markup.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
