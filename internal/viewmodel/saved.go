// ABOUTME: View model for the saved articles page
// ABOUTME: Mirrors the repository collection and keeps the count message and keyword summary current

package viewmodel

import (
	"context"
	"slices"
	"sync"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/remote"
	"github.com/harper/newsdesk/internal/repository"
	"github.com/harper/newsdesk/internal/session"
)

// Property names reported by SavedViewModel.
const (
	PropCountMessage = "articlesCountMessage"
	PropKeywordList  = "keywordList"
)

// SavedViewModel presents the user's saved articles.
type SavedViewModel struct {
	observable.Notifier

	repo    *repository.Repository
	session *session.Manager

	countMessage *observable.Property[string]
	hasArticles  *observable.Property[bool]

	mu       sync.Mutex
	items    []*ArticleViewModel
	keywords []string

	unsubscribe []func()
}

// NewSavedViewModel binds a view model to repo. sess provides the user's name and may be nil.
func NewSavedViewModel(repo *repository.Repository, sess *session.Manager) *SavedViewModel {
	vm := &SavedViewModel{repo: repo, session: sess}
	vm.countMessage = observable.NewProperty(&vm.Notifier, PropCountMessage, MsgSavedLoading)
	vm.hasArticles = observable.NewProperty(&vm.Notifier, PropHasArticles, false)

	vm.unsubscribe = []func(){
		repo.LoadCompleted.Subscribe(vm.onLoaded),
		repo.Changed.Subscribe(vm.onChanged),
		repo.OperationCompleted.Subscribe(vm.onOperationDone),
	}
	return vm
}

// Load fetches the saved list. The cards are rebuilt from the load result.
func (vm *SavedViewModel) Load(ctx context.Context) error {
	return vm.repo.Load(ctx).Err()
}

func (vm *SavedViewModel) onLoaded(res *remote.Result[[]*models.Article]) {
	if !res.OK() {
		vm.countMessage.Set(MsgLoadSavedError)
		return
	}

	items := make([]*ArticleViewModel, 0, len(res.Data()))
	for _, a := range res.Data() {
		items = append(items, NewArticleViewModel(a, true))
	}

	vm.mu.Lock()
	old := vm.items
	vm.items = items
	vm.mu.Unlock()

	for _, item := range old {
		item.Cleanup()
	}
	vm.updateStats()
}

// onChanged removes cards whose delete was confirmed. Cards are only ever
// added by a load.
func (vm *SavedViewModel) onChanged(c repository.Change) {
	if c.Added {
		return
	}

	vm.mu.Lock()
	i := slices.IndexFunc(vm.items, func(item *ArticleViewModel) bool { return item.LocalID() == c.Key })
	if i < 0 {
		vm.mu.Unlock()
		return
	}
	item := vm.items[i]
	vm.items = slices.Delete(vm.items, i, i+1)
	vm.mu.Unlock()

	item.Cleanup()
	vm.updateStats()
}

func (vm *SavedViewModel) onOperationDone(op repository.OperationDone) {
	vm.mu.Lock()
	i := slices.IndexFunc(vm.items, func(item *ArticleViewModel) bool { return item.LocalID() == op.LocalID })
	var item *ArticleViewModel
	if i >= 0 {
		item = vm.items[i]
	}
	vm.mu.Unlock()

	if item != nil {
		item.operationDone()
	}
}

func (vm *SavedViewModel) updateStats() {
	vm.mu.Lock()
	n := len(vm.items)
	all := make([]string, 0, n)
	for _, item := range vm.items {
		all = append(all, item.Keyword())
	}
	keywords := KeywordList(all)
	changed := !slices.Equal(keywords, vm.keywords)
	vm.keywords = keywords
	vm.mu.Unlock()

	name := ""
	if vm.session != nil {
		name = vm.session.Name()
	}
	vm.countMessage.Set(CountMessage(name, n))
	vm.hasArticles.Set(n > 0)
	if changed {
		vm.NotifyPropertyChanged(PropKeywordList)
	}
}

// CountMessage returns the saved-articles count sentence.
func (vm *SavedViewModel) CountMessage() string { return vm.countMessage.Get() }

// HasArticles reports whether any card is shown.
func (vm *SavedViewModel) HasArticles() bool { return vm.hasArticles.Get() }

// Keywords returns the keyword summary.
func (vm *SavedViewModel) Keywords() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]string(nil), vm.keywords...)
}

// Items returns the cards in collection order.
func (vm *SavedViewModel) Items() []*ArticleViewModel {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]*ArticleViewModel(nil), vm.items...)
}

// Cleanup detaches from the repository and releases every card.
func (vm *SavedViewModel) Cleanup() {
	for _, fn := range vm.unsubscribe {
		fn()
	}
	vm.unsubscribe = nil

	vm.mu.Lock()
	items := vm.items
	vm.items = nil
	vm.mu.Unlock()

	for _, item := range items {
		item.Cleanup()
	}
	vm.Notifier.Cleanup()
}
