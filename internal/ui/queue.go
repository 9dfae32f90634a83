package ui

import (
	"context"
	"sync"
)

// UpdateQueue hands widget updates to the draw loop in the order they were
// pushed. Push never blocks, so it is safe from event handlers and from
// fetch goroutines alike.
type UpdateQueue struct {
	draw func(func())

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// NewUpdateQueue feeds batches to draw, typically Application.QueueUpdateDraw.
func NewUpdateQueue(draw func(func())) *UpdateQueue {
	return &UpdateQueue{draw: draw, wake: make(chan struct{}, 1)}
}

// Push schedules f.
func (q *UpdateQueue) Push(f func()) {
	q.mu.Lock()
	q.pending = append(q.pending, f)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done.
func (q *UpdateQueue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		}
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			continue
		}
		q.draw(func() {
			for _, f := range batch {
				f()
			}
		})
	}
}
