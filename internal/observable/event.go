// ABOUTME: Multi-subscriber event with ordered listeners and explicit unsubscribe
// ABOUTME: Listeners run synchronously on the emitting goroutine, outside the event lock

package observable

import (
	"slices"
	"sync"
)

type listener[T any] struct {
	id uint64
	fn func(T)
}

// Event is an ordered list of listeners for values of type T.
// The zero value is ready to use.
type Event[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

// Subscribe appends fn to the listener list and returns a function that removes it.
// The returned function is safe to call more than once.
func (e *Event[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Event[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.listeners = slices.DeleteFunc(e.listeners, func(l listener[T]) bool {
		return l.id == id
	})
}

// Emit calls every listener in subscription order.
// Listeners added or removed during Emit take effect on the next Emit.
func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of subscribed listeners.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Clear removes all listeners.
func (e *Event[T]) Clear() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}
