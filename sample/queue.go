package sample

import "sync"

// EventQueue buffers events pushed by a UI goroutine until the loop drains them.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *EventQueue) Push(evts ...Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, evts...)
}

// Drain appends the pending events to dst in arrival order and empties the queue.
// It never blocks on an empty queue.
func (q *EventQueue) Drain(dst []Event) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	dst = append(dst, q.events...)
	q.events = q.events[:0]
	return dst
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
