// ABOUTME: Shared terminal output helpers for article listings
// ABOUTME: Prints article cards with color formatting and parses index lists

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/viewmodel"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

// printArticle writes one article card. label is the index or id shown first.
func printArticle(w io.Writer, label string, item *viewmodel.ArticleViewModel) {
	mark := "  "
	if item.IsSaved() {
		mark = green("★ ")
	}

	title := item.Title()
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(w, "%s %s%s\n", faint(label), mark, bold(title))

	meta := []string{}
	if item.Source() != "" {
		meta = append(meta, item.Source())
	}
	if published := item.PublishedAt(); published != "" {
		meta = append(meta, published)
	}
	if item.Keyword() != "" {
		meta = append(meta, "#"+item.Keyword())
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "   %s\n", faint(strings.Join(meta, " · ")))
	}
	if item.URL() != "" {
		fmt.Fprintf(w, "   %s\n", cyan(item.URL()))
	}
}

// shortID truncates a local id for display.
func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}

// parseIndexes parses a comma separated list of 1-based indexes.
func parseIndexes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		if n < 1 {
			return nil, fmt.Errorf("index must be positive, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
