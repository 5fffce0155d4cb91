// ABOUTME: In-memory fakes for the saved-articles store and the search provider
// ABOUTME: Record calls and allow tests to fail or block individual requests

package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/newsdesk/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	saved   []models.SavedItem
	fetchFn func() ([]models.SavedItem, error)

	createErr error
	createID  string
	deleteErr error
	gate      chan struct{} // when set, create and delete wait for it to close

	creates []string // LocalIDs
	deletes []string // RemoteIDs
}

func (f *fakeStore) FetchSaved(ctx context.Context) ([]models.SavedItem, error) {
	if f.fetchFn != nil {
		return f.fetchFn()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SavedItem(nil), f.saved...), nil
}

func (f *fakeStore) CreateSaved(ctx context.Context, a *models.Article) (string, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, a.LocalID)
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.createID != "" {
		return f.createID, nil
	}
	return fmt.Sprintf("remote-%d", len(f.creates)), nil
}

func (f *fakeStore) DeleteSaved(ctx context.Context, remoteID string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, remoteID)
	return f.deleteErr
}

func (f *fakeStore) wait() {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeStore) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakeStore) deleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type fakeProvider struct {
	mu      sync.Mutex
	results map[string][]models.SearchItem
	err     error
	gates   map[string]chan struct{}
	queries []string
}

func (p *fakeProvider) Search(ctx context.Context, query string) ([]models.SearchItem, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	gate := p.gates[query]
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.results[query], nil
}

func searchItems(n int, prefix string) []models.SearchItem {
	items := make([]models.SearchItem, n)
	for i := range items {
		items[i] = models.SearchItem{
			Title:       fmt.Sprintf("%s %d", prefix, i+1),
			Description: "summary",
			URL:         fmt.Sprintf("https://example.com/%s/%d", prefix, i+1),
			PublishedAt: "2024-05-01T08:00:00Z",
			SourceName:  "Example",
		}
	}
	return items
}

func savedItem(id, title string) models.SavedItem {
	return models.SavedItem{
		ID:      id,
		Keyword: "rust",
		Title:   title,
		Text:    "text",
		Date:    "2024-05-01T08:00:00Z",
		Source:  "Example",
		Link:    "https://example.com/saved/" + id,
	}
}
