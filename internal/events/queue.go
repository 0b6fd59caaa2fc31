// Package events carries worker output to the UI thread. Workers push from
// any goroutine; the UI drains on a timer and renders each batch in order.
package events

import (
	"sync"

	"github.com/ytget/yutto-gui/internal/model"
)

// Queue is an unbounded multi-producer, single-consumer FIFO
type Queue struct {
	mu      sync.Mutex
	pending []model.Event
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event. It never blocks on the consumer.
func (q *Queue) Push(e model.Event) {
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()
}

// PushLine is shorthand for pushing a LineEvent
func (q *Queue) PushLine(text string, severity model.Severity) {
	q.Push(model.LineEvent(text, severity))
}

// Drain removes and returns everything pushed so far, oldest first.
// It returns nil when the queue is empty.
func (q *Queue) Drain() []model.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	batch := q.pending
	q.pending = nil
	return batch
}

// Len returns the number of undrained events
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
