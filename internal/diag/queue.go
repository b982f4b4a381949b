package diag

import (
	"sync"

	"ccgen/internal/queue"
)

// Queue is the multi-producer channel that carries diagnostics from pipeline
// stages to the Sink. Sends never block.
//
// Every stage that may report takes its own Producer and closes it when it
// finishes; the queue closes after the last producer does. All producers must
// be registered before the first one is closed.
type Queue struct {
	items *queue.Unbounded[Diagnostic]

	mu        sync.Mutex
	producers int
}

// NewQueue returns an open queue without producers.
func NewQueue() *Queue {
	return &Queue{items: queue.NewUnbounded[Diagnostic]()}
}

// Producer registers a new sender.
func (q *Queue) Producer() *Producer {
	q.mu.Lock()
	q.producers++
	q.mu.Unlock()
	return &Producer{q: q}
}

// Recv blocks until a diagnostic is available or all producers are closed
// and the queue is drained.
func (q *Queue) Recv() (Diagnostic, bool) {
	return q.items.Recv()
}

func (q *Queue) release() {
	q.mu.Lock()
	q.producers--
	last := q.producers <= 0
	q.mu.Unlock()
	if last {
		q.items.Close()
	}
}

// Producer is one sending end of a Queue. It implements Reporter.
type Producer struct {
	q    *Queue
	once sync.Once
}

func (p *Producer) Report(d Diagnostic) {
	if p == nil || p.q == nil {
		return
	}
	p.q.items.Send(d)
}

// Close drops this sender. Safe to call more than once.
func (p *Producer) Close() {
	if p == nil || p.q == nil {
		return
	}
	p.once.Do(p.q.release)
}
