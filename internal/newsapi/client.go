// ABOUTME: News search provider client for the newsapi.org "everything" endpoint
// ABOUTME: Limits request rate, coalesces identical in-flight queries and caches recent results

package newsapi

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/fetch"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/remote"
	"github.com/harper/newsdesk/internal/timeutil"
)

// OpSearch prefixes search errors.
const OpSearch = "Error searching news"

type response struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// Client queries the news search API.
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	cache      *expirable.LRU[string, []models.SearchItem]
	group      singleflight.Group
	now        func() time.Time
	windowDays int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithRateLimit allows burst requests at once and one more every interval.
// A non-positive interval disables limiting.
func WithRateLimit(interval time.Duration, burst int) Option {
	return func(cl *Client) {
		if interval <= 0 {
			cl.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		cl.limiter = rate.NewLimiter(rate.Every(interval), burst)
	}
}

// WithCache keeps up to size query results for ttl. A size of zero disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(cl *Client) {
		if size <= 0 {
			cl.cache = nil
			return
		}
		cl.cache = expirable.NewLRU[string, []models.SearchItem](size, nil, ttl)
	}
}

// WithClock overrides the clock used for the search window.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

// New creates a client for baseURL authenticated by apiKey.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		http:       fetch.NewHTTPClient(config.DefaultHTTPTimeout, nil),
		logger:     zap.NewNop(),
		limiter:    rate.NewLimiter(rate.Every(config.SearchRateInterval), config.SearchRateBurst),
		cache:      expirable.NewLRU[string, []models.SearchItem](config.SearchCacheSize, nil, config.SearchCacheTTL),
		now:        time.Now,
		windowDays: config.NewsWindowDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns the matches for query published within the news window,
// in provider order. The returned slice is owned by the caller.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchItem, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	if c.cache != nil {
		if items, ok := c.cache.Get(key); ok {
			c.logger.Debug("search cache hit", zap.String("query", query))
			return slices.Clone(items), nil
		}
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		items, err := c.fetch(ctx, query)
		if err == nil && c.cache != nil {
			c.cache.Add(key, items)
		}
		return items, err
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("search coalesced", zap.String("query", query))
	}

	return slices.Clone(v.([]models.SearchItem)), nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]models.SearchItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, remote.Transport(OpSearch, err)
	}

	u, err := c.searchURL(query)
	if err != nil {
		return nil, remote.Transport(OpSearch, err)
	}

	resp, err := fetch.Do(ctx, c.http, fetch.Request{URL: u, Op: OpSearch})
	if err != nil {
		return nil, err
	}

	var body response
	if err := fetch.DecodeJSON(OpSearch, resp, &body); err != nil {
		return nil, err
	}

	items := make([]models.SearchItem, 0, len(body.Articles))
	for _, a := range body.Articles {
		items = append(items, models.SearchItem{
			Title:       a.Title,
			Description: content.PlainText(a.Description),
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			PublishedAt: a.PublishedAt,
			SourceName:  a.Source.Name,
		})
	}

	c.logger.Debug("news search", zap.String("query", query), zap.Int("results", len(items)))
	return items, nil
}

func (c *Client) searchURL(query string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	from, to := timeutil.SearchWindow(c.now().UTC(), c.windowDays)

	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("pageSize", strconv.Itoa(config.NewsRequestSize))
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	q.Set("q", query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
