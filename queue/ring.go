// Package queue provides the bounded buffers between the emulation goroutine and
// the presentation and audio consumers.
package queue

import "sync"

// Ring is a bounded FIFO guarded by a mutex. Producers never block unless they ask to.
type Ring[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []T
	head     int
	size     int
	closed   bool
}

// NewRing creates a Ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring[T]{items: make([]T, capacity)}
	r.notEmpty = sync.NewCond(&r.mu)
	r.notFull = sync.NewCond(&r.mu)
	return r
}

func (r *Ring[T]) push(item T) {
	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++
	r.notEmpty.Signal()
}

func (r *Ring[T]) pop() T {
	var zero T
	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--
	r.notFull.Signal()
	return item
}

// Push appends item, it returns false if the ring is full or closed.
func (r *Ring[T]) Push(item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.size == len(r.items) {
		return false
	}
	r.push(item)
	return true
}

// PushWait appends item, waiting for room. It returns false once the ring is closed.
func (r *Ring[T]) PushWait(item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for !r.closed && r.size == len(r.items) {
		r.notFull.Wait()
	}
	if r.closed {
		return false
	}
	r.push(item)
	return true
}

// Pop removes the oldest item, waiting for one. ok is false when the ring is closed and drained.
func (r *Ring[T]) Pop() (item T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for !r.closed && r.size == 0 {
		r.notEmpty.Wait()
	}
	if r.size == 0 {
		return item, false
	}
	return r.pop(), true
}

// Drain moves up to len(dst) items into dst without waiting and returns how many were moved.
func (r *Ring[T]) Drain(dst []T) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for n < len(dst) && r.size > 0 {
		dst[n] = r.pop()
		n++
	}
	return n
}

// Len returns the number of queued items.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Full reports whether a Push would fail for lack of room.
func (r *Ring[T]) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size == len(r.items)
}

// Close wakes every waiter, queued items can still be popped.
func (r *Ring[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.notEmpty.Broadcast()
	r.notFull.Broadcast()
}

func (r *Ring[T]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
