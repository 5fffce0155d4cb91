// ABOUTME: Article model representing one news item that can be saved to the user's collection
// ABOUTME: Save state is an explicit machine (Unsaved, Saving, Saved, Deleting) with observable transitions

package models

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harper/newsdesk/internal/observable"
	"github.com/harper/newsdesk/internal/timeutil"
)

var (
	// ErrIllegalTransition is returned when a save state change is not allowed
	// from the current state, e.g. toggling while a request is in flight.
	ErrIllegalTransition = errors.New("illegal save state transition")

	// ErrAlreadyOwned is returned when a second repository tries to adopt an article.
	ErrAlreadyOwned = errors.New("article is owned by another repository")
)

// SaveState is the persistence state of an article.
type SaveState int

const (
	Unsaved SaveState = iota
	Saving
	Saved
	Deleting
)

func (s SaveState) String() string {
	switch s {
	case Unsaved:
		return "unsaved"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("SaveState(%d)", int(s))
	}
}

// saved is the user-visible flag: optimistic while saving, cleared while deleting.
func (s SaveState) saved() bool {
	return s == Saving || s == Saved
}

// Transition describes one save state change of an article.
type Transition struct {
	Article *Article
	From    SaveState
	To      SaveState
	Err     error // non-nil when the transition rolls back a failed request
}

// Rollback reports whether the transition reverts a failed request.
func (t Transition) Rollback() bool {
	return t.Err != nil
}

// Fields holds the content of an article as delivered by a provider.
type Fields struct {
	Keyword     string
	Title       string
	Summary     string
	PublishedAt string // ISO 8601, may be empty
	Source      string
	URL         string
	ImageURL    string
}

// Article represents a news article that can be saved to the user's collection
type Article struct {
	LocalID        string
	Keyword        string
	Title          string
	Summary        string
	PublishedAt    *time.Time
	RawPublishedAt string
	Source         string
	URL            string
	ImageURL       string

	// emit serializes state changes with their notification so listeners
	// observe transitions in the order they happened.
	emit sync.Mutex

	mu       sync.Mutex
	state    SaveState
	remoteID string
	owner    string
	changes  observable.Event[Transition]
}

// NewArticle creates an unsaved Article with a fresh random LocalID
func NewArticle(f Fields) *Article {
	a := &Article{
		LocalID:        uuid.New().String(),
		Keyword:        f.Keyword,
		Title:          f.Title,
		Summary:        f.Summary,
		RawPublishedAt: f.PublishedAt,
		Source:         f.Source,
		URL:            f.URL,
		ImageURL:       f.ImageURL,
	}
	if t, ok := timeutil.ParseISO(f.PublishedAt); ok {
		a.PublishedAt = &t
	}
	return a
}

// NewSavedArticle creates an Article already persisted under remoteID
func NewSavedArticle(remoteID string, f Fields) *Article {
	a := NewArticle(f)
	a.remoteID = remoteID
	a.state = Saved
	return a
}

// RemoteID returns the server id, empty unless the article is a confirmed record.
func (a *Article) RemoteID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remoteID
}

// State returns the current save state.
func (a *Article) State() SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Saved reports whether the article is (optimistically) in the user's collection.
func (a *Article) Saved() bool {
	return a.State().saved()
}

// Busy reports whether a save or delete request is in flight.
func (a *Article) Busy() bool {
	s := a.State()
	return s == Saving || s == Deleting
}

// Changes exposes save state transitions to any number of listeners.
func (a *Article) Changes() *observable.Event[Transition] {
	return &a.changes
}

// SetSaved requests a save state change. Setting the current value is a no-op.
// Toggling while a request is in flight returns ErrIllegalTransition.
// Listeners must not change the save state of the notifying article synchronously.
func (a *Article) SetSaved(v bool) error {
	a.emit.Lock()
	defer a.emit.Unlock()

	a.mu.Lock()
	if a.state.saved() == v {
		a.mu.Unlock()
		return nil
	}

	var to SaveState
	switch {
	case v && a.state == Unsaved:
		to = Saving
	case !v && a.state == Saved:
		to = Deleting
	default:
		from := a.state
		a.mu.Unlock()
		return fmt.Errorf("%w: %s to saved=%t", ErrIllegalTransition, from, v)
	}

	t := a.moveLocked(to, nil)
	a.mu.Unlock()

	a.changes.Emit(t)
	return nil
}

// ConfirmSave completes Saving and binds the server id.
func (a *Article) ConfirmSave(remoteID string) error {
	return a.complete(Saving, Saved, nil, func() { a.remoteID = remoteID })
}

// FailSave rolls Saving back to Unsaved.
func (a *Article) FailSave(err error) error {
	return a.complete(Saving, Unsaved, rollbackErr(err), nil)
}

// ConfirmDelete completes Deleting and forgets the server id.
func (a *Article) ConfirmDelete() error {
	return a.complete(Deleting, Unsaved, nil, func() { a.remoteID = "" })
}

// FailDelete rolls Deleting back to Saved.
func (a *Article) FailDelete(err error) error {
	return a.complete(Deleting, Saved, rollbackErr(err), nil)
}

// MarkSaved records that an unsaved article already exists remotely under remoteID.
func (a *Article) MarkSaved(remoteID string) error {
	return a.complete(Unsaved, Saved, nil, func() { a.remoteID = remoteID })
}

func (a *Article) complete(from, to SaveState, err error, apply func()) error {
	a.emit.Lock()
	defer a.emit.Unlock()

	a.mu.Lock()
	if a.state != from {
		cur := a.state
		a.mu.Unlock()
		return fmt.Errorf("%w: %s to %s (expected %s)", ErrIllegalTransition, cur, to, from)
	}
	if apply != nil {
		apply()
	}
	t := a.moveLocked(to, err)
	a.mu.Unlock()

	a.changes.Emit(t)
	return nil
}

func (a *Article) moveLocked(to SaveState, err error) Transition {
	t := Transition{Article: a, From: a.state, To: to, Err: err}
	a.state = to
	return t
}

func rollbackErr(err error) error {
	if err == nil {
		return errors.New("request failed")
	}
	return err
}

// Adopt subscribes the owning repository's handler. An article has at most one
// owner; adopting again with the same owner is a no-op.
func (a *Article) Adopt(owner string, fn func(Transition)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.owner {
	case owner:
		return nil
	case "":
		a.owner = owner
		a.changes.Subscribe(fn)
		return nil
	default:
		return ErrAlreadyOwned
	}
}

// Owner returns the id of the owning repository, if any.
func (a *Article) Owner() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner
}

// Cleanup drops the owner and every listener so the article can be released.
func (a *Article) Cleanup() {
	a.mu.Lock()
	a.owner = ""
	a.mu.Unlock()

	a.changes.Clear()
}
