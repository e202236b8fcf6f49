package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/labi-le/mammon/internal/types/domain"
)

var ErrClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of clipboard events.
// Any number of goroutines may Send; one goroutine receives.
type Queue struct {
	mu     sync.Mutex
	items  []domain.ClipEvent
	closed bool

	notify chan struct{}
	done   chan struct{}
}

func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Send never blocks. It fails with ErrClosed once the queue is closed.
func (q *Queue) Send(ev domain.ClipEvent) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Receive blocks until an event is available. Events queued before Close are
// still delivered; after that it returns ErrClosed.
func (q *Queue) Receive(ctx context.Context) (domain.ClipEvent, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items[0] = domain.ClipEvent{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return domain.ClipEvent{}, ErrClosed
		}

		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return domain.ClipEvent{}, ctx.Err()
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
