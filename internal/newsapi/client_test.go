// ABOUTME: Tests for the news search provider client
// ABOUTME: Covers request parameters, response mapping, caching, coalescing and error propagation

package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsdesk/internal/remote"
)

const sampleResponse = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": null, "name": "Example News"},
      "title": "Rust 2.0 released",
      "description": "<p>The <b>Rust</b> team announced</p>",
      "url": "https://example.com/rust",
      "urlToImage": "https://example.com/rust.png",
      "publishedAt": "2024-05-01T08:00:00Z"
    },
    {
      "source": {"name": "Other"},
      "title": "Second",
      "description": null,
      "url": "https://other.example/2",
      "urlToImage": null,
      "publishedAt": "2024-05-02T08:00:00Z"
    }
  ]
}`

var fixedNow = time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{WithClock(func() time.Time { return fixedNow }), WithRateLimit(0, 0)}
	return New(server.URL+"/v2/everything", "secret", append(base, opts...)...)
}

func TestSearch_RequestParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "secret", q.Get("apiKey"))
		assert.Equal(t, "100", q.Get("pageSize"))
		assert.Equal(t, "2024-05-01T12:00:00Z", q.Get("from"))
		assert.Equal(t, "2024-05-08T12:00:00Z", q.Get("to"))
		assert.Equal(t, "rust", q.Get("q"))
		_, _ = w.Write([]byte(sampleResponse))
	})

	items, err := c.Search(context.Background(), "rust")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Rust 2.0 released", items[0].Title)
	assert.Equal(t, "The Rust team announced", items[0].Description)
	assert.Equal(t, "https://example.com/rust", items[0].URL)
	assert.Equal(t, "https://example.com/rust.png", items[0].URLToImage)
	assert.Equal(t, "2024-05-01T08:00:00Z", items[0].PublishedAt)
	assert.Equal(t, "Example News", items[0].SourceName)

	assert.Equal(t, "", items[1].Description)
	assert.Equal(t, "", items[1].URLToImage)
}

func TestSearch_CachesResults(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleResponse))
	})

	first, err := c.Search(context.Background(), "Rust")
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := c.Search(context.Background(), " rust ")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Rust 2.0 released", second[0].Title, "cached slice must not be shared with callers")
}

func TestSearch_CacheDisabled(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleResponse))
	}, WithCache(0, 0))

	for i := 0; i < 2; i++ {
		_, err := c.Search(context.Background(), "rust")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_ConcurrentIdenticalQueries(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(sampleResponse))
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := c.Search(context.Background(), "rust")
			assert.NoError(t, err)
			assert.Len(t, items, 2)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
		default:
			_, _ = w.Write([]byte(`{"articles": [`))
		}
	})

	_, err := c.Search(context.Background(), "unauthorized")
	require.Error(t, err)
	assert.True(t, remote.IsUnauthorized(err))
	rerr, ok := remote.As(err)
	require.True(t, ok)
	assert.Equal(t, "Your API key is invalid", rerr.Message)

	_, err = c.Search(context.Background(), "garbage")
	rerr, ok = remote.As(err)
	require.True(t, ok)
	assert.Equal(t, remote.KindParse, rerr.Kind)
}

func TestSearch_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(sampleResponse))
	})

	_, err := c.Search(context.Background(), "rust")
	require.Error(t, err)

	items, err := c.Search(context.Background(), "rust")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSearch_RateLimitHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}, WithRateLimit(time.Hour, 1), WithCache(0, 0))

	_, err := c.Search(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "second")
	require.Error(t, err)

	rerr, ok := remote.As(err)
	require.True(t, ok)
	assert.Equal(t, remote.KindTransport, rerr.Kind)
}
