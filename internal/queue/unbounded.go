// Package queue provides the FIFO queues that connect pipeline stages.
package queue

import (
	"iter"
	"sync"
)

// Unbounded is a FIFO queue whose Send never blocks. It is meant for one
// consumer; any number of goroutines may send.
//
// Recv reports ok=false only after Close has been called and every queued
// item has been received, so closing never loses items.
type Unbounded[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

// NewUnbounded returns an empty open queue.
func NewUnbounded[T any]() *Unbounded[T] {
	return &Unbounded[T]{ready: make(chan struct{}, 1)}
}

// Send appends v. It returns false if the queue is already closed, in which
// case v is dropped.
func (q *Unbounded[T]) Send(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
	return true
}

// Close marks the queue as finished. Further sends are dropped. Closing twice
// is a no-op.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Recv blocks until an item is available or the queue is closed and drained.
func (q *Unbounded[T]) Recv() (T, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			var zero T
			q.items[0] = zero
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.mu.Unlock()
			return v, true
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		q.mu.Unlock()
		<-q.ready
	}
}

// All yields items until the queue is closed and drained.
func (q *Unbounded[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := q.Recv()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Len returns the number of items waiting to be received.
func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Unbounded[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
