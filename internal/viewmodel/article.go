// ABOUTME: View model for one article card in search results or the saved list
// ABOUTME: Exposes display fields and a busy flag that is independent of the save state machine

package viewmodel

import (
	"errors"
	"sync"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/timeutil"
)

// ErrNotLoggedIn is returned when an anonymous user toggles a bookmark.
var ErrNotLoggedIn = errors.New("sign in to save articles")

// Property names reported by ArticleViewModel.
const (
	PropIsBusy                = "isBusy"
	PropIsSaved               = "isSaved"
	PropHasNotLoggedInTooltip = "hasNotLoggedInTooltip"
)

// ArticleViewModel wraps an article for display.
type ArticleViewModel struct {
	observable.Notifier

	article     *models.Article
	busy        *observable.Property[bool]
	notLoggedIn *observable.Property[bool]

	once        sync.Once
	unsubscribe func()
}

// NewArticleViewModel binds a view model to a. loggedIn controls whether the
// bookmark toggle is available.
func NewArticleViewModel(a *models.Article, loggedIn bool) *ArticleViewModel {
	vm := &ArticleViewModel{article: a}
	vm.busy = observable.NewProperty(&vm.Notifier, PropIsBusy, false)
	vm.notLoggedIn = observable.NewProperty(&vm.Notifier, PropHasNotLoggedInTooltip, !loggedIn)
	vm.unsubscribe = a.Changes().Subscribe(vm.onTransition)
	return vm
}

func (vm *ArticleViewModel) onTransition(t models.Transition) {
	vm.NotifyPropertyChanged(PropIsSaved)
	if t.Rollback() {
		vm.busy.Set(false)
	}
}

// Article returns the underlying article.
func (vm *ArticleViewModel) Article() *models.Article { return vm.article }

// LocalID returns the article key.
func (vm *ArticleViewModel) LocalID() string { return vm.article.LocalID }

func (vm *ArticleViewModel) Title() string    { return vm.article.Title }
func (vm *ArticleViewModel) Summary() string  { return vm.article.Summary }
func (vm *ArticleViewModel) Source() string   { return vm.article.Source }
func (vm *ArticleViewModel) URL() string      { return vm.article.URL }
func (vm *ArticleViewModel) ImageURL() string { return vm.article.ImageURL }
func (vm *ArticleViewModel) Keyword() string  { return vm.article.Keyword }

// PublishedAt returns the publish date formatted for display.
func (vm *ArticleViewModel) PublishedAt() string {
	return timeutil.FormatPublished(vm.article.PublishedAt)
}

// IsSaved reports the optimistic saved flag.
func (vm *ArticleViewModel) IsSaved() bool { return vm.article.Saved() }

// IsBusy reports whether the card is waiting for a save or delete to finish.
func (vm *ArticleViewModel) IsBusy() bool { return vm.busy.Get() }

// HasNotLoggedInTooltip reports whether the toggle is disabled for an anonymous user.
func (vm *ArticleViewModel) HasNotLoggedInTooltip() bool { return vm.notLoggedIn.Get() }

// SetLoggedIn enables or disables the toggle.
func (vm *ArticleViewModel) SetLoggedIn(v bool) { vm.notLoggedIn.Set(!v) }

// Toggle flips the saved flag of a search result.
func (vm *ArticleViewModel) Toggle() error {
	if vm.notLoggedIn.Get() {
		return ErrNotLoggedIn
	}
	return vm.request(!vm.article.Saved())
}

// Delete removes a saved article from the collection.
func (vm *ArticleViewModel) Delete() error {
	return vm.request(false)
}

func (vm *ArticleViewModel) request(saved bool) error {
	if vm.article.Saved() == saved {
		return nil
	}
	vm.busy.Set(true)
	if err := vm.article.SetSaved(saved); err != nil {
		vm.busy.Set(vm.article.Busy())
		return err
	}
	return nil
}

// operationDone clears the busy flag once the repository finished a request.
func (vm *ArticleViewModel) operationDone() {
	vm.busy.Set(false)
}

// Cleanup detaches from the article and drops every listener.
func (vm *ArticleViewModel) Cleanup() {
	vm.once.Do(func() {
		vm.unsubscribe()
		vm.Notifier.Cleanup()
	})
}
