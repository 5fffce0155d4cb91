// ABOUTME: Change notifier embedded by stateful objects for property and teardown events
// ABOUTME: Property setters short-circuit on equal values so repeated sets cause no churn

package observable

import "sync"

// Notifier carries the property-changed and cleanup channels shared by
// view models and other stateful objects.
type Notifier struct {
	// PropertyChanged receives the name of each property that changed.
	PropertyChanged Event[string]

	cleanup  Event[struct{}]
	mu       sync.Mutex
	released bool
}

// NotifyPropertyChanged emits one PropertyChanged event per name.
func (n *Notifier) NotifyPropertyChanged(names ...string) {
	for _, name := range names {
		n.PropertyChanged.Emit(name)
	}
}

// OnCleanup registers fn to run when Cleanup is called.
func (n *Notifier) OnCleanup(fn func()) (unsubscribe func()) {
	return n.cleanup.Subscribe(func(struct{}) { fn() })
}

// Cleanup fires cleanup listeners exactly once and then drops every listener.
func (n *Notifier) Cleanup() {
	n.mu.Lock()
	if n.released {
		n.mu.Unlock()
		return
	}
	n.released = true
	n.mu.Unlock()

	n.cleanup.Emit(struct{}{})
	n.cleanup.Clear()
	n.PropertyChanged.Clear()
}

// Released reports whether Cleanup has run.
func (n *Notifier) Released() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.released
}

// Property is an observable value bound to a Notifier under a fixed name.
type Property[T comparable] struct {
	mu    sync.Mutex
	value T
	name  string
	owner *Notifier
}

// NewProperty creates a property that reports changes to owner as name.
func NewProperty[T comparable](owner *Notifier, name string, initial T) *Property[T] {
	return &Property[T]{value: initial, name: name, owner: owner}
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set stores v and notifies the owner. Setting the current value is a no-op
// and returns false.
func (p *Property[T]) Set(v T) bool {
	p.mu.Lock()
	if p.value == v {
		p.mu.Unlock()
		return false
	}
	p.value = v
	p.mu.Unlock()

	if p.owner != nil {
		p.owner.NotifyPropertyChanged(p.name)
	}
	return true
}
