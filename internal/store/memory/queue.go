package memory

import "sync"

// watchQueue serializes notification delivery for a single watcher so
// snapshots arrive in mutation order. Without it two snapshots computed under
// the store lock in sequence could be delivered inverted, leaving the watcher
// holding stale final state. Enqueues after close are dropped.
type watchQueue struct {
	mu       sync.Mutex
	pending  []func()
	draining bool
	closed   bool
}

func newWatchQueue() *watchQueue { return &watchQueue{} }

func (q *watchQueue) enqueue(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()
	go q.drain()
}

// drain runs queued deliveries one at a time until the queue empties or
// closes. At most one drain goroutine runs per queue.
func (q *watchQueue) drain() {
	for {
		q.mu.Lock()
		if q.closed || len(q.pending) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()
		fn()
	}
}

func (q *watchQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.pending = nil
	q.mu.Unlock()
}
