// ABOUTME: Search extension of the repository: query lifecycle, paged reveal and saved-status attachment
// ABOUTME: Results are adopted by the shared repository so saving a match goes through the same reconciliation

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/remote"
)

// DefaultPageSize is how many matches each reveal adds.
const DefaultPageSize = 3

var (
	// ErrEmptyQuery is returned for a blank search keyword.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrSuperseded is the result of a search replaced by a newer one before it completed.
	ErrSuperseded = errors.New("search superseded by a newer query")

	// ErrClosed is returned by a search started or finishing after Close.
	ErrClosed = errors.New("search closed")
)

// SearchProvider finds news matching a query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]models.SearchItem, error)
}

// State is the lifecycle of the active query.
type State int

const (
	Idle State = iota
	Searching
	Results
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Results:
		return "results"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Search runs queries against a provider and pages through the matches.
type Search struct {
	repo       *Repository
	provider   SearchProvider
	logger     *zap.Logger
	pageSize   int
	dispatcher *observable.Dispatcher

	mu      sync.Mutex
	state   State
	query   string
	results *ResultSet
	err     error
	seq     uint64
	closed  bool

	StateChanged    observable.Event[State]
	SearchCompleted observable.Event[*remote.Result[*ResultSet]]
	Revealed        observable.Event[*models.Article]
}

// SearchOption configures a Search.
type SearchOption func(*Search)

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) SearchOption {
	return func(s *Search) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithSearchLogger sets the logger.
func WithSearchLogger(l *zap.Logger) SearchOption {
	return func(s *Search) { s.logger = l }
}

// NewSearch creates an idle search whose results are tracked by repo.
func NewSearch(repo *Repository, provider SearchProvider, opts ...SearchOption) *Search {
	s := &Search{
		repo:       repo,
		provider:   provider,
		logger:     zap.NewNop(),
		pageSize:   DefaultPageSize,
		dispatcher: observable.NewDispatcher(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns the repository that tracks the results.
func (s *Search) Repository() *Repository { return s.repo }

// Search replaces the current results with the matches for query.
// The previous results are released and the repository cleared before the provider is called.
func (s *Search) Search(ctx context.Context, query string) *remote.Result[*ResultSet] {
	query = strings.TrimSpace(query)
	if query == "" {
		return remote.Fail[*ResultSet](ErrEmptyQuery)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return remote.Fail[*ResultSet](ErrClosed)
	}
	s.seq++
	seq := s.seq
	old := s.results
	s.results = nil
	s.err = nil
	s.query = query
	s.state = Searching
	s.mu.Unlock()

	if old != nil {
		old.release()
	}
	s.repo.Clear()
	s.StateChanged.Emit(Searching)

	items, err := s.provider.Search(ctx, query)

	var articles []*models.Article
	if err == nil {
		articles = make([]*models.Article, 0, len(items))
		for _, item := range items {
			a := models.NewArticle(item.Fields(query))
			if terr := s.repo.Track(a); terr != nil {
				s.logger.Warn("failed to track search result", zap.Error(terr))
				continue
			}
			articles = append(articles, a)
		}
	}

	s.mu.Lock()
	if s.closed || seq != s.seq {
		reason := ErrSuperseded
		if s.closed {
			reason = ErrClosed
		}
		s.mu.Unlock()
		for _, a := range articles {
			a.Cleanup()
		}
		return remote.Fail[*ResultSet](reason)
	}

	var res *remote.Result[*ResultSet]
	switch {
	case err != nil:
		s.state = Failed
		s.err = err
		res = remote.Fail[*ResultSet](err)
	case len(articles) == 0:
		s.state = Empty
		s.results = newResultSet(query, nil, s.pageSize)
		res = remote.OK(s.results)
	default:
		s.state = Results
		s.results = newResultSet(query, articles, s.pageSize)
		res = remote.OK(s.results)
	}
	state := s.state
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
	} else {
		s.logger.Debug("search completed", zap.String("query", query), zap.Int("results", len(articles)))
	}

	s.StateChanged.Emit(state)
	s.SearchCompleted.Emit(res)
	return res
}

// RevealMore reveals the next page of matches and returns it. Each revealed
// article is also delivered to Revealed listeners, in order, without waiting
// for them. It is a no-op once every match is revealed.
func (s *Search) RevealMore() []*models.Article {
	s.mu.Lock()
	if s.state != Results || s.results == nil {
		s.mu.Unlock()
		return nil
	}
	page := s.results.next()
	s.mu.Unlock()

	for _, a := range page {
		if !s.dispatcher.Post(func() { s.Revealed.Emit(a) }) {
			s.logger.Warn("reveal notification dropped after close", zap.String("local_id", a.LocalID))
		}
	}
	return page
}

// Wait blocks until every posted reveal notification has been delivered.
func (s *Search) Wait() {
	s.dispatcher.Wait()
}

// MarkSaved attaches matches whose URL is in saved to the repository as
// already saved. It returns how many matches were attached.
func (s *Search) MarkSaved(saved []models.SavedItem) int {
	byURL := make(map[string]string, len(saved))
	for _, item := range saved {
		if item.Link != "" && item.ID != "" {
			byURL[item.Link] = item.ID
		}
	}

	rs := s.Results()
	if rs == nil {
		return 0
	}

	n := 0
	for _, a := range rs.All() {
		id, ok := byURL[a.URL]
		if !ok || a.State() != models.Unsaved {
			continue
		}
		if err := s.repo.Attach(a, id); err != nil {
			s.logger.Warn("failed to attach saved result", zap.String("url", a.URL), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// SyncSaved fetches the user's saved list and marks the current matches that
// are already in it. It returns how many matches were marked.
func (s *Search) SyncSaved(ctx context.Context) (int, error) {
	saved, err := s.repo.store.FetchSaved(ctx)
	if err != nil {
		s.logger.Warn("failed to load saved status for results", zap.Error(err))
		return 0, err
	}
	return s.MarkSaved(saved), nil
}

// Close releases the results and stops notification delivery. Later
// searches fail with ErrClosed.
func (s *Search) Close() {
	s.mu.Lock()
	s.closed = true
	old := s.results
	s.results = nil
	s.state = Idle
	s.mu.Unlock()

	if old != nil {
		old.release()
	}
	s.dispatcher.Close()
}

// HasMore reports whether RevealMore would reveal anything.
func (s *Search) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Results && s.results != nil && s.results.HasMore()
}

// Cursor returns how many matches are revealed.
func (s *Search) Cursor() int {
	if rs := s.Results(); rs != nil {
		return rs.Cursor()
	}
	return 0
}

// Results returns the active result set, nil unless the last search succeeded.
func (s *Search) Results() *ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// State returns the lifecycle state of the active query.
func (s *Search) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the active query.
func (s *Search) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Err returns the error of a failed search.
func (s *Search) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
