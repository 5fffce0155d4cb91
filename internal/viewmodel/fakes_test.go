// ABOUTME: Test doubles for the view model tests
// ABOUTME: In-memory saved store, search provider and account API

package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/newsdesk/internal/explorer"
	"github.com/harper/newsdesk/internal/models"
)

type memoryStore struct {
	mu        sync.Mutex
	saved     []models.SavedItem
	loadErr   error
	createErr error
	deleteErr error
	nextID    int
}

func (s *memoryStore) FetchSaved(ctx context.Context) ([]models.SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]models.SavedItem(nil), s.saved...), nil
}

func (s *memoryStore) CreateSaved(ctx context.Context, a *models.Article) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.nextID++
	item := models.ToSavedItem(a)
	item.ID = fmt.Sprintf("%d", 41+s.nextID)
	s.saved = append(s.saved, item)
	return item.ID, nil
}

func (s *memoryStore) DeleteSaved(ctx context.Context, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, item := range s.saved {
		if item.ID == remoteID {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			break
		}
	}
	return nil
}

type staticProvider struct {
	results map[string][]models.SearchItem
	err     error
}

func (p *staticProvider) Search(ctx context.Context, query string) ([]models.SearchItem, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.results[query], nil
}

func matches(n int) []models.SearchItem {
	items := make([]models.SearchItem, n)
	for i := range items {
		items[i] = models.SearchItem{
			Title:       fmt.Sprintf("Match %d", i+1),
			URL:         fmt.Sprintf("https://example.com/%d", i+1),
			PublishedAt: "2020-08-02T10:00:00Z",
			SourceName:  "Example",
		}
	}
	return items
}

type account struct {
	name string
}

func (a *account) SignIn(ctx context.Context, email, password string) (string, error) {
	return "token", nil
}

func (a *account) SignUp(ctx context.Context, name, email, password string) error { return nil }

func (a *account) Profile(ctx context.Context) (*explorer.Profile, error) {
	return &explorer.Profile{Name: a.name}, nil
}

func (a *account) SetToken(token string) {}
