// ABOUTME: Ordered search matches with a reveal cursor for incremental paging
// ABOUTME: The cursor only moves forward, one page at a time, and never passes the end

package repository

import (
	"sync"

	"github.com/harper/newsdesk/internal/models"
)

// ResultSet is the full match list of one query plus how much of it is revealed.
type ResultSet struct {
	query    string
	pageSize int

	mu       sync.Mutex
	articles []*models.Article
	cursor   int
}

func newResultSet(query string, articles []*models.Article, pageSize int) *ResultSet {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ResultSet{query: query, articles: articles, pageSize: pageSize}
}

// Query returns the search keyword.
func (rs *ResultSet) Query() string { return rs.query }

// PageSize returns how many matches one reveal adds.
func (rs *ResultSet) PageSize() int { return rs.pageSize }

// Len returns the total number of matches.
func (rs *ResultSet) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.articles)
}

// Cursor returns how many matches have been revealed.
func (rs *ResultSet) Cursor() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.cursor
}

// HasMore reports whether matches remain to be revealed.
func (rs *ResultSet) HasMore() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.cursor < len(rs.articles)
}

// All returns every match in provider order.
func (rs *ResultSet) All() []*models.Article {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]*models.Article(nil), rs.articles...)
}

// Revealed returns the matches revealed so far.
func (rs *ResultSet) Revealed() []*models.Article {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]*models.Article(nil), rs.articles[:rs.cursor]...)
}

// At returns the i-th revealed match.
func (rs *ResultSet) At(i int) (*models.Article, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if i < 0 || i >= rs.cursor {
		return nil, false
	}
	return rs.articles[i], true
}

// next advances the cursor by one page and returns the newly revealed matches.
func (rs *ResultSet) next() []*models.Article {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	end := min(rs.cursor+rs.pageSize, len(rs.articles))
	page := append([]*models.Article(nil), rs.articles[rs.cursor:end]...)
	rs.cursor = end
	return page
}

func (rs *ResultSet) release() {
	rs.mu.Lock()
	articles := rs.articles
	rs.articles = nil
	rs.cursor = 0
	rs.mu.Unlock()

	for _, a := range articles {
		a.Cleanup()
	}
}
