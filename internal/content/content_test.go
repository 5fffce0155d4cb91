// ABOUTME: Tests for content processing utilities
// ABOUTME: Validates HTML detection, plain-text stripping and article Markdown rendering

package content

import (
	"strings"
	"testing"

	"github.com/harper/newsdesk/internal/models"
)

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"plain text", "This is just plain text without any HTML.", false},
		{"paragraph tag", "<p>This is a paragraph.</p>", true},
		{"link tag", "Check out <a href=\"https://example.com\">this link</a>.", true},
		{"DOCTYPE", "<!DOCTYPE html><html><body>Test</body></html>", true},
		{"font tag", "<font color=\"#6f6f6f\">Reuters</font>", true},
		{"empty string", "", false},
		{"angle brackets but not HTML", "5 < 10 and 10 > 5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTML(tt.content); got != tt.expected {
				t.Errorf("IsHTML(%q) = %v, expected %v", tt.content, got, tt.expected)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"plain", "  Rust   is\nfast ", "Rust is fast"},
		{"html", "<p>Rust &amp; Go <a href=\"https://x\">compared</a></p>", "Rust & Go compared"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.content); got != tt.expected {
				t.Errorf("PlainText(%q) = %q, expected %q", tt.content, got, tt.expected)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	if got := ToMarkdown("plain text"); got != "plain text" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}

	got := ToMarkdown("<p>Hello <strong>world</strong></p>")
	if !strings.Contains(got, "**world**") {
		t.Errorf("expected bold markdown, got %q", got)
	}
}

func TestArticleMarkdown(t *testing.T) {
	a := models.NewArticle(models.Fields{
		Keyword:     "rust",
		Title:       "Rust 2.0",
		Summary:     "<p>Big <em>news</em></p>",
		PublishedAt: "2024-05-01T08:00:00Z",
		Source:      "Example",
		URL:         "https://example.com/rust",
	})

	md := ArticleMarkdown(a)
	for _, want := range []string{"# Rust 2.0", "Example", "1 May, 2024", "#rust", "*news*", "(https://example.com/rust)"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	empty := ArticleMarkdown(models.NewArticle(models.Fields{}))
	if !strings.Contains(empty, "(untitled)") {
		t.Errorf("expected untitled placeholder, got %q", empty)
	}
}
