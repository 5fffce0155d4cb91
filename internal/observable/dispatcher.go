// ABOUTME: Ordered fire-and-forget delivery of callbacks on a dedicated goroutine
// ABOUTME: Producers never wait for a consumer to finish handling a previous item

package observable

import "sync"

// Dispatcher runs posted functions one at a time, in posting order.
type Dispatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
	pending sync.WaitGroup
	done    chan struct{}
}

// NewDispatcher starts a dispatcher goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

// Post queues fn and returns immediately. It returns false after Close.
func (d *Dispatcher) Post(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.pending.Add(1)
	d.queue = append(d.queue, fn)
	d.cond.Signal()
	return true
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.call(fn)
	}
}

func (d *Dispatcher) call(fn func()) {
	defer d.pending.Done()
	fn()
}

// Wait blocks until every function posted so far has run.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Close drains the queue and stops the dispatcher goroutine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()

	<-d.done
}
