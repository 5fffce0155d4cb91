// ABOUTME: In-memory collection of saved articles kept consistent with the remote saved-articles store
// ABOUTME: Reacts to article save transitions with optimistic create/delete calls and rolls back on failure

package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/remote"
)

// ErrDuplicate is the rollback reason when a save is requested for an article
// the collection already holds.
var ErrDuplicate = errors.New("article already in collection")

// SavedStore is the remote saved-articles collection.
type SavedStore interface {
	FetchSaved(ctx context.Context) ([]models.SavedItem, error)
	CreateSaved(ctx context.Context, a *models.Article) (remoteID string, err error)
	// DeleteSaved treats a missing record as success.
	DeleteSaved(ctx context.Context, remoteID string) error
}

// Change reports an article entering or leaving the collection.
type Change struct {
	Key     string
	Added   bool
	Article *models.Article
}

// OperationDone reports the end of a save or delete request for one article.
type OperationDone struct {
	LocalID string
	Err     error
}

// Repository holds the saved articles keyed by LocalID.
type Repository struct {
	id              string
	store           SavedStore
	logger          *zap.Logger
	ctx             context.Context
	disposeOnRemove bool

	mu         sync.Mutex
	items      map[string]*models.Article
	order      []string
	pending    map[string]struct{}
	generation uint64
	inflight   sync.WaitGroup

	Changed            observable.Event[Change]
	LoadCompleted      observable.Event[*remote.Result[[]*models.Article]]
	OperationCompleted observable.Event[OperationDone]
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithDisposeOnRemove releases an article's listeners once its delete is confirmed.
func WithDisposeOnRemove(v bool) Option {
	return func(r *Repository) { r.disposeOnRemove = v }
}

// WithContext sets the base context for save and delete requests.
// Callers' contexts never cancel a request that is already in flight.
func WithContext(ctx context.Context) Option {
	return func(r *Repository) { r.ctx = ctx }
}

// New creates an empty repository backed by store.
func New(store SavedStore, opts ...Option) *Repository {
	r := &Repository{
		id:      uuid.New().String(),
		store:   store,
		logger:  zap.NewNop(),
		ctx:     context.Background(),
		items:   make(map[string]*models.Article),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the collection with the remote saved list.
// The result is also delivered to LoadCompleted listeners.
func (r *Repository) Load(ctx context.Context) *remote.Result[[]*models.Article] {
	saved, err := r.store.FetchSaved(ctx)
	if err != nil {
		r.logger.Warn("failed to load saved articles", zap.Error(err))
		res := remote.Fail[[]*models.Article](err)
		r.LoadCompleted.Emit(res)
		return res
	}

	articles := make([]*models.Article, 0, len(saved))
	for _, item := range saved {
		if item.ID == "" {
			r.logger.Warn("skipping saved article without id", zap.String("title", item.Title))
			continue
		}
		a := models.NewSavedArticle(item.ID, item.Fields())
		if err := a.Adopt(r.id, r.reconcile); err != nil {
			continue
		}
		articles = append(articles, a)
	}

	r.mu.Lock()
	old := r.items
	r.items = make(map[string]*models.Article, len(articles))
	r.order = make([]string, 0, len(articles))
	for _, a := range articles {
		r.items[a.LocalID] = a
		r.order = append(r.order, a.LocalID)
	}
	r.generation++
	r.mu.Unlock()

	for _, a := range old {
		a.Cleanup()
	}

	r.logger.Debug("loaded saved articles", zap.Int("count", len(articles)))
	res := remote.OK(articles)
	r.LoadCompleted.Emit(res)
	return res
}

// LoadAsync runs Load on a new goroutine and delivers its result on the returned channel.
func (r *Repository) LoadAsync(ctx context.Context) <-chan *remote.Result[[]*models.Article] {
	ch := make(chan *remote.Result[[]*models.Article], 1)
	go func() {
		ch <- r.Load(ctx)
	}()
	return ch
}

// Clear releases and drops every held article.
func (r *Repository) Clear() {
	r.mu.Lock()
	old := r.items
	r.items = make(map[string]*models.Article)
	r.order = nil
	r.generation++
	r.mu.Unlock()

	for _, a := range old {
		a.Cleanup()
	}
}

// Track makes the repository react to a's save transitions without adding it
// to the collection. An article saved later joins the collection on success.
func (r *Repository) Track(a *models.Article) error {
	return a.Adopt(r.id, r.reconcile)
}

// Attach tracks a and records it as already saved under remoteID.
func (r *Repository) Attach(a *models.Article, remoteID string) error {
	if err := r.Track(a); err != nil {
		return err
	}
	if err := a.MarkSaved(remoteID); err != nil {
		return err
	}

	r.mu.Lock()
	r.insertLocked(a)
	r.mu.Unlock()
	return nil
}

// Articles returns the held articles in insertion order.
func (r *Repository) Articles() []*models.Article {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Article, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

// Get returns the article stored under localID.
func (r *Repository) Get(localID string) (*models.Article, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[localID]
	return a, ok
}

// Contains reports whether localID is in the collection.
func (r *Repository) Contains(localID string) bool {
	_, ok := r.Get(localID)
	return ok
}

// Len returns the number of held articles.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Wait blocks until every in-flight save and delete has completed.
func (r *Repository) Wait() {
	r.inflight.Wait()
}

// Await runs request, typically a save state change of the article with
// localID, and waits for the repository to finish the resulting request.
// It returns request's error or the error the request completed with.
func (r *Repository) Await(localID string, request func() error) error {
	var (
		mu  sync.Mutex
		err error
	)
	unsubscribe := r.OperationCompleted.Subscribe(func(op OperationDone) {
		if op.LocalID != localID {
			return
		}
		mu.Lock()
		err = op.Err
		mu.Unlock()
	})
	defer unsubscribe()

	if rerr := request(); rerr != nil {
		return rerr
	}
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	return err
}

func (r *Repository) insertLocked(a *models.Article) {
	if _, ok := r.items[a.LocalID]; ok {
		return
	}
	r.items[a.LocalID] = a
	r.order = append(r.order, a.LocalID)
}

func (r *Repository) removeLocked(localID string) bool {
	if _, ok := r.items[localID]; !ok {
		return false
	}
	delete(r.items, localID)
	for i, id := range r.order {
		if id == localID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// reconcile is subscribed to every adopted article. It only acts on user
// requested transitions, so rollbacks and confirmations never recurse.
func (r *Repository) reconcile(t models.Transition) {
	if t.Rollback() {
		return
	}

	switch {
	case t.From == models.Unsaved && t.To == models.Saving:
		r.save(t.Article)
	case t.From == models.Saved && t.To == models.Deleting:
		r.remove(t.Article)
	}
}

func (r *Repository) save(a *models.Article) {
	r.mu.Lock()
	_, held := r.items[a.LocalID]
	_, busy := r.pending[a.LocalID]
	if held || busy {
		r.mu.Unlock()
		r.logger.Warn("save requested for article already in collection", zap.String("local_id", a.LocalID))
		r.async(func() { r.finish(a, a.FailSave(ErrDuplicate), ErrDuplicate) })
		return
	}
	r.pending[a.LocalID] = struct{}{}
	gen := r.generation
	r.inflight.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.inflight.Done()

		remoteID, err := r.store.CreateSaved(r.ctx, a)

		r.mu.Lock()
		delete(r.pending, a.LocalID)
		current := gen == r.generation
		if err == nil && current {
			r.insertLocked(a)
		}
		r.mu.Unlock()

		if err != nil {
			r.logger.Warn("failed to save article", zap.String("local_id", a.LocalID), zap.Error(err))
			r.finish(a, a.FailSave(err), err)
			return
		}

		if cerr := a.ConfirmSave(remoteID); cerr != nil {
			r.finish(a, cerr, cerr)
			return
		}
		r.logger.Debug("saved article", zap.String("local_id", a.LocalID), zap.String("remote_id", remoteID))
		if current {
			r.Changed.Emit(Change{Key: a.LocalID, Added: true, Article: a})
		}
		r.OperationCompleted.Emit(OperationDone{LocalID: a.LocalID})
	}()
}

func (r *Repository) remove(a *models.Article) {
	r.mu.Lock()
	_, held := r.items[a.LocalID]
	if !held && a.RemoteID() == "" {
		r.mu.Unlock()
		r.logger.Warn("delete requested for article never persisted", zap.String("local_id", a.LocalID))
		r.async(func() { r.finish(a, a.ConfirmDelete(), nil) })
		return
	}
	// A persisted article outside the collection, e.g. saved across a Clear,
	// is still deleted remotely.
	if _, busy := r.pending[a.LocalID]; busy {
		r.mu.Unlock()
		r.async(func() { r.finish(a, a.FailDelete(ErrDuplicate), ErrDuplicate) })
		return
	}
	r.pending[a.LocalID] = struct{}{}
	r.inflight.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.inflight.Done()

		err := r.store.DeleteSaved(r.ctx, a.RemoteID())
		if remote.IsNotFound(err) {
			err = nil
		}

		r.mu.Lock()
		delete(r.pending, a.LocalID)
		removed := err == nil && r.removeLocked(a.LocalID)
		r.mu.Unlock()

		if err != nil {
			r.logger.Warn("failed to delete article", zap.String("local_id", a.LocalID), zap.Error(err))
			r.finish(a, a.FailDelete(err), err)
			return
		}

		if cerr := a.ConfirmDelete(); cerr != nil {
			r.finish(a, cerr, cerr)
			return
		}
		r.logger.Debug("deleted article", zap.String("local_id", a.LocalID))
		if removed {
			r.Changed.Emit(Change{Key: a.LocalID, Added: false, Article: a})
		}
		r.OperationCompleted.Emit(OperationDone{LocalID: a.LocalID})
		if removed && r.disposeOnRemove {
			a.Cleanup()
		}
	}()
}

// async runs a completion off the notifying goroutine. Completions wait for
// the triggering notification to reach every listener first.
func (r *Repository) async(fn func()) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		fn()
	}()
}

// finish reports the outcome of a request. transitionErr is non-nil when the
// article refused the completing transition, which is logged and reported.
func (r *Repository) finish(a *models.Article, transitionErr, err error) {
	if transitionErr != nil {
		r.logger.Error("article state out of sync", zap.String("local_id", a.LocalID), zap.Error(transitionErr))
		err = transitionErr
	}
	r.OperationCompleted.Emit(OperationDone{LocalID: a.LocalID, Err: err})
}
