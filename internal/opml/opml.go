// Package opml reads and writes subscription lists in OPML form.
package opml

import (
	"fmt"
	"regexp"

	"github.com/gilliek/go-opml/opml"

	"github.com/ogomez92/brook-feeder/internal/store"
)

// @user@instance fediverse handle, sometimes found in exported OPML
// instead of a profile URL.
var handleRe = regexp.MustCompile(`^@([^@]+)@(.+)$`)

// ExtractURLs pulls every feed URL out of an OPML document, walking
// nested outlines. Fediverse handles are normalized to profile URLs so
// detection can handle them like any pasted URL.
func ExtractURLs(data []byte) ([]string, error) {
	doc, err := opml.NewOPML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing OPML: %w", err)
	}
	return collect(doc.Body.Outlines), nil
}

func collect(outlines []opml.Outline) []string {
	var urls []string
	for _, o := range outlines {
		if o.XMLURL != "" {
			urls = append(urls, NormalizeHandle(o.XMLURL))
		}
		urls = append(urls, collect(o.Outlines)...)
	}
	return urls
}

// NormalizeHandle converts @user@instance to https://instance/@user;
// anything else passes through unchanged.
func NormalizeHandle(url string) string {
	if m := handleRe.FindStringSubmatch(url); m != nil {
		return fmt.Sprintf("https://%s/@%s", m[2], m[1])
	}
	return url
}

// Export renders the stored subscriptions as an OPML document.
func Export(feeds []store.FeedRecord) (string, error) {
	doc := opml.OPML{
		Version: "2.0",
		Head:    opml.Head{Title: "brook-feeder subscriptions"},
	}
	for _, f := range feeds {
		doc.Body.Outlines = append(doc.Body.Outlines, opml.Outline{
			Text:    f.Title,
			Title:   f.Title,
			Type:    "rss",
			XMLURL:  f.FeedURL,
			HTMLURL: f.URL,
		})
	}
	out, err := doc.XML()
	if err != nil {
		return "", fmt.Errorf("rendering OPML: %w", err)
	}
	return out, nil
}
