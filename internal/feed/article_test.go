package feed

import "testing"

func TestArticleID(t *testing.T) {
	id1 := articleID("https://example.com/post-1", "Post 1")
	id2 := articleID("https://example.com/post-2", "Post 2")
	id1again := articleID("https://example.com/post-1", "Post 1")

	if id1 == id2 {
		t.Error("different items should produce different IDs")
	}
	if id1 != id1again {
		t.Error("same item should produce same ID")
	}
	if len(id1) != 32 {
		t.Errorf("expected 32-char hex string, got %d chars: %s", len(id1), id1)
	}
}

func TestArticleIDDependsOnTitle(t *testing.T) {
	// Same link, different titles: distinct items on feeds that reuse
	// permalinks.
	a := articleID("https://example.com/post", "First")
	b := articleID("https://example.com/post", "Second")
	if a == b {
		t.Error("title change should change the ID")
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
		{"<p>Post content</p><p>more</p>", "Post contentmore"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}
