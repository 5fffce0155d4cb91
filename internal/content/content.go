// ABOUTME: Content processing for article summaries from search providers
// ABOUTME: Strips provider HTML to plain text and builds Markdown documents for terminal rendering

package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/timeutil"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote|font)[^>]*>`)

var stripPolicy = bluemonday.StrictPolicy()

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// PlainText removes all markup from content and collapses whitespace.
// Non-HTML input only has its whitespace normalized.
func PlainText(content string) string {
	if IsHTML(content) {
		content = html.UnescapeString(stripPolicy.Sanitize(content))
	}
	return strings.Join(strings.Fields(content), " ")
}

// ToMarkdown converts HTML content to Markdown
// If the content doesn't appear to be HTML, returns it unchanged
func ToMarkdown(content string) string {
	if content == "" || !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(markdown)
}

// ArticleMarkdown renders an article as a Markdown document.
func ArticleMarkdown(a *models.Article) string {
	var b strings.Builder

	title := a.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	var meta []string
	if a.Source != "" {
		meta = append(meta, a.Source)
	}
	if date := timeutil.FormatPublished(a.PublishedAt); date != "" {
		meta = append(meta, date)
	}
	if a.Keyword != "" {
		meta = append(meta, "#"+a.Keyword)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
	}

	if summary := ToMarkdown(a.Summary); summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	if a.URL != "" {
		fmt.Fprintf(&b, "[Read the original](%s)\n", a.URL)
	}
	return b.String()
}
