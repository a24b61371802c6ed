// Package queue provides an unbounded, blocking FIFO with task accounting.
//
// Producers Put items, consumers Get them and call TaskDone once per item
// after handling it. Join blocks until every item ever Put has been marked
// done, which gives the producer a barrier over all consumers.
package queue

import "sync"

// Queue is safe for concurrent use. The zero value is not usable; call New.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	allDone  *sync.Cond

	items      []T
	unfinished int
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.allDone = sync.NewCond(&q.mu)
	return q
}

// Put appends item. It never blocks on queue capacity.
func (q *Queue[T]) Put(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.unfinished++
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// Get removes and returns the oldest item, blocking until one is available.
// Each item is returned to exactly one caller.
func (q *Queue[T]) Get() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item
}

// TaskDone marks one previously fetched item as processed.
// It panics when called more times than Put.
func (q *Queue[T]) TaskDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.unfinished <= 0 {
		panic("queue: TaskDone called too many times")
	}
	q.unfinished--
	if q.unfinished == 0 {
		q.allDone.Broadcast()
	}
}

// Join blocks until every item Put so far has been marked done.
func (q *Queue[T]) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.unfinished > 0 {
		q.allDone.Wait()
	}
}

// Len returns the number of items waiting to be fetched.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Unfinished returns the number of items not yet marked done.
func (q *Queue[T]) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}
