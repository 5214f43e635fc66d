package events

import "sync"

// Queue is an unbounded multi-producer, single-consumer queue. Send never
// waits for the consumer: values are buffered until the consumer reads them
// from C. Order is preserved per producer.
type Queue[T any] struct {
	in        chan T
	out       chan T
	done      chan struct{}
	closeOnce sync.Once
	stopOnce  sync.Once
}

// NewQueue creates a queue and starts its buffering goroutine.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{
		in:   make(chan T),
		out:  make(chan T),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

func (q *Queue[T]) pump() {
	defer close(q.out)

	var pending []T
	in := q.in
	for in != nil || len(pending) > 0 {
		var (
			out  chan T
			next T
		)
		if len(pending) > 0 {
			out = q.out
			next = pending[0]
		}

		select {
		case v, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, v)
		case out <- next:
			var zero T
			pending[0] = zero
			pending = pending[1:]
		case <-q.done:
			return
		}
	}
}

// Send enqueues v. It must not be called after Close.
func (q *Queue[T]) Send(v T) {
	select {
	case q.in <- v:
	case <-q.done:
	}
}

// C returns the consumer channel. It is closed once the queue has been
// closed and every buffered value delivered, or when Stop is called.
func (q *Queue[T]) C() <-chan T {
	return q.out
}

// Close stops accepting values. Buffered values are still delivered.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() { close(q.in) })
}

// Stop discards undelivered values and releases the buffering goroutine.
// Consumers that stopped reading early call it so the queue does not leak.
func (q *Queue[T]) Stop() {
	q.stopOnce.Do(func() { close(q.done) })
}
