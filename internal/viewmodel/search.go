// ABOUTME: View model for the news search page
// ABOUTME: Drives the query lifecycle, pages results in and keeps per-card busy flags in sync

package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/remote"
	"github.com/harper/newsdesk/internal/repository"
	"github.com/harper/newsdesk/internal/session"
)

// Property names reported by SearchViewModel.
const (
	PropIsMoreVisible      = "isMoreVisible"
	PropIsNoResultsVisible = "isNoResultsVisible"
	PropErrorMessage       = "errorMessage"
	PropIsErrorVisible     = "isErrorVisible"
	PropHasArticles        = "hasArticles"
)

// SearchViewModel presents search results a page at a time.
type SearchViewModel struct {
	observable.Notifier

	search  *repository.Search
	session *session.Manager

	busy        *observable.Property[bool]
	moreVisible *observable.Property[bool]
	noResults   *observable.Property[bool]
	errMessage  *observable.Property[string]
	hasArticles *observable.Property[bool]

	mu    sync.Mutex
	items []*ArticleViewModel
	byID  map[string]*ArticleViewModel

	// ItemAdded receives each card in reveal order after it joined Items.
	ItemAdded observable.Event[*ArticleViewModel]

	unsubscribe []func()
}

// NewSearchViewModel binds a view model to search. sess may be nil for an anonymous user.
func NewSearchViewModel(search *repository.Search, sess *session.Manager) *SearchViewModel {
	vm := &SearchViewModel{
		search:  search,
		session: sess,
		byID:    make(map[string]*ArticleViewModel),
	}
	vm.busy = observable.NewProperty(&vm.Notifier, PropIsBusy, false)
	vm.moreVisible = observable.NewProperty(&vm.Notifier, PropIsMoreVisible, false)
	vm.noResults = observable.NewProperty(&vm.Notifier, PropIsNoResultsVisible, false)
	vm.errMessage = observable.NewProperty(&vm.Notifier, PropErrorMessage, "")
	vm.hasArticles = observable.NewProperty(&vm.Notifier, PropHasArticles, false)

	vm.unsubscribe = append(vm.unsubscribe,
		search.Revealed.Subscribe(vm.onRevealed),
		search.Repository().OperationCompleted.Subscribe(vm.onOperationDone),
	)
	if sess != nil {
		vm.unsubscribe = append(vm.unsubscribe, sess.LoginCompleted.Subscribe(vm.onLogin))
	}
	return vm
}

func (vm *SearchViewModel) loggedIn() bool {
	return vm.session != nil && vm.session.IsLoggedIn()
}

// SearchCommand runs a new query and shows its first page.
func (vm *SearchViewModel) SearchCommand(ctx context.Context, query string) error {
	vm.moreVisible.Set(false)
	vm.noResults.Set(false)
	vm.setError("")
	vm.busy.Set(true)
	vm.clearItems()

	res := vm.search.Search(ctx, query)
	vm.busy.Set(false)

	if err := res.Err(); err != nil {
		if !errors.Is(err, repository.ErrSuperseded) {
			vm.setError(MsgSearchError)
		}
		return err
	}

	if res.Data().Len() == 0 {
		vm.noResults.Set(true)
		return nil
	}
	// Saved status is best effort.
	if vm.loggedIn() {
		_, _ = vm.search.SyncSaved(ctx)
	}
	vm.ShowMoreCommand()
	return nil
}

// ShowMoreCommand reveals the next page of results.
func (vm *SearchViewModel) ShowMoreCommand() []*ArticleViewModel {
	loggedIn := vm.loggedIn()

	// Reveal notifications wait on vm.mu, so cards exist before ItemAdded fires.
	vm.mu.Lock()
	page := vm.search.RevealMore()
	if len(page) == 0 {
		vm.mu.Unlock()
		vm.moreVisible.Set(vm.search.HasMore())
		return nil
	}

	added := make([]*ArticleViewModel, 0, len(page))
	for _, a := range page {
		item := NewArticleViewModel(a, loggedIn)
		vm.items = append(vm.items, item)
		vm.byID[a.LocalID] = item
		added = append(added, item)
	}
	vm.mu.Unlock()

	vm.hasArticles.Set(true)
	vm.moreVisible.Set(vm.search.HasMore())
	return added
}

func (vm *SearchViewModel) onRevealed(a *models.Article) {
	vm.mu.Lock()
	item, ok := vm.byID[a.LocalID]
	vm.mu.Unlock()
	if ok {
		vm.ItemAdded.Emit(item)
	}
}

func (vm *SearchViewModel) onOperationDone(op repository.OperationDone) {
	vm.mu.Lock()
	item, ok := vm.byID[op.LocalID]
	vm.mu.Unlock()
	if ok {
		item.operationDone()
	}
}

func (vm *SearchViewModel) onLogin(res *remote.Result[string]) {
	if !res.OK() {
		return
	}
	for _, item := range vm.Items() {
		item.SetLoggedIn(true)
	}
}

func (vm *SearchViewModel) setError(msg string) {
	if vm.errMessage.Set(msg) {
		vm.NotifyPropertyChanged(PropIsErrorVisible)
	}
}

func (vm *SearchViewModel) clearItems() {
	vm.mu.Lock()
	items := vm.items
	vm.items = nil
	vm.byID = make(map[string]*ArticleViewModel)
	vm.mu.Unlock()

	for _, item := range items {
		item.Cleanup()
	}
	vm.hasArticles.Set(false)
}

// Items returns the visible cards in display order.
func (vm *SearchViewModel) Items() []*ArticleViewModel {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]*ArticleViewModel(nil), vm.items...)
}

// Item returns the i-th visible card.
func (vm *SearchViewModel) Item(i int) (*ArticleViewModel, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if i < 0 || i >= len(vm.items) {
		return nil, false
	}
	return vm.items[i], true
}

func (vm *SearchViewModel) IsBusy() bool             { return vm.busy.Get() }
func (vm *SearchViewModel) IsMoreVisible() bool      { return vm.moreVisible.Get() }
func (vm *SearchViewModel) IsNoResultsVisible() bool { return vm.noResults.Get() }
func (vm *SearchViewModel) ErrorMessage() string     { return vm.errMessage.Get() }
func (vm *SearchViewModel) IsErrorVisible() bool     { return vm.errMessage.Get() != "" }
func (vm *SearchViewModel) HasArticles() bool        { return vm.hasArticles.Get() }

// Cleanup detaches from the search and releases every card.
func (vm *SearchViewModel) Cleanup() {
	for _, fn := range vm.unsubscribe {
		fn()
	}
	vm.unsubscribe = nil
	vm.clearItems()
	vm.Notifier.Cleanup()
}
