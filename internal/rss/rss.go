// ABOUTME: RSS search provider backed by a feed search endpoint and the gofeed parser
// ABOUTME: Maps RSS or Atom entries onto provider-neutral search items

package rss

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/fetch"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/remote"
)

// OpSearch prefixes search errors.
const OpSearch = "Error searching news"

// Parse parses RSS or Atom feed data into search items in feed order
func Parse(data []byte) ([]models.SearchItem, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(data))
	if err != nil {
		return nil, err
	}

	items := make([]models.SearchItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := models.SearchItem{
			Title:      strings.TrimSpace(item.Title),
			URL:        item.Link,
			SourceName: sourceName(item),
		}

		// Use PublishedParsed or fallback to UpdatedParsed
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
		}

		// Prefer Description over Content, summaries are shown in lists
		if item.Description != "" {
			entry.Description = content.PlainText(item.Description)
		} else {
			entry.Description = content.PlainText(item.Content)
		}

		entry.URLToImage = imageURL(item)
		items = append(items, entry)
	}

	return items, nil
}

func sourceName(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if u, err := url.Parse(item.Link); err == nil {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	return ""
}

func imageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// Provider searches an RSS endpoint that accepts the query as the q parameter.
type Provider struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New creates a provider for baseURL, e.g. https://news.google.com/rss/search
func New(baseURL string, opts ...Option) *Provider {
	p := &Provider{
		baseURL: baseURL,
		client:  fetch.NewHTTPClient(config.DefaultHTTPTimeout, nil),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search fetches the feed for query and returns its entries.
func (p *Provider) Search(ctx context.Context, query string) ([]models.SearchItem, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, remote.Transport(OpSearch, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	resp, err := fetch.Do(ctx, p.client, fetch.Request{URL: u.String(), Op: OpSearch})
	if err != nil {
		return nil, err
	}

	items, err := Parse(resp.Body)
	if err != nil {
		return nil, remote.Parse(OpSearch, resp.StatusCode, err)
	}
	p.logger.Debug("rss search", zap.String("query", query), zap.Int("results", len(items)))
	return items, nil
}
