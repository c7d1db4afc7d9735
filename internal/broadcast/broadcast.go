// Package broadcast implements a bounded multi-subscriber fan-out channel.
// A slow subscriber never blocks a publisher or other subscribers: once
// its buffer is full, further messages are dropped for it and it is told
// how many it missed (Lagged) the next time it receives.
package broadcast

import "sync"

// Broadcaster fans out values of type T to any number of subscribers.
// The zero value is not usable; construct with New.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*Subscription[T]]struct{}
	capacity    int
}

// New returns a Broadcaster whose subscriber channels each buffer up to
// capacity pending messages.
func New[T any](capacity int) *Broadcaster[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcaster[T]{
		subscribers: make(map[*Subscription[T]]struct{}),
		capacity:    capacity,
	}
}

// Subscription is one subscriber's view onto a Broadcaster.
type Subscription[T any] struct {
	ch     chan T
	mu     sync.Mutex
	lagged int
}

// Subscribe registers a new subscriber. Callers must call Unsubscribe
// when done to release it.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, b.capacity)}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes sub; its channel is closed and any further Recv
// returns ok=false.
func (b *Broadcaster[T]) Unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub]; ok {
		delete(b.subscribers, sub)
		close(sub.ch)
	}
}

// Publish delivers value to every current subscriber. A subscriber whose
// buffer is full does not block the publisher: the value is dropped for
// that subscriber and its lag counter is incremented.
func (b *Broadcaster[T]) Publish(value T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub.ch <- value:
		default:
			sub.mu.Lock()
			sub.lagged++
			sub.mu.Unlock()
		}
	}
}

// SubscriberCount reports the number of currently registered subscribers.
func (b *Broadcaster[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close unsubscribes and closes every current subscriber's channel.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		close(sub.ch)
	}
	b.subscribers = make(map[*Subscription[T]]struct{})
}

// Recv blocks for the next value. lagged > 0 means this many messages
// were dropped for this subscriber (its buffer was full) since its
// previous Recv;
// callers must treat that as a non-fatal skip, not an error. ok is false
// once the subscription has been closed and drained.
func (s *Subscription[T]) Recv() (value T, lagged int, ok bool) {
	v, open := <-s.ch
	if !open {
		return value, 0, false
	}

	s.mu.Lock()
	lagged = s.lagged
	s.lagged = 0
	s.mu.Unlock()

	return v, lagged, true
}

// Chan exposes the raw channel for use in a select statement. Lag
// information is only available through Recv; a caller selecting on Chan
// directly forgoes the Lagged signal.
func (s *Subscription[T]) Chan() <-chan T { return s.ch }
