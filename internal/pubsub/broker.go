// Package pubsub fans out change notifications to interested listeners,
// such as the playground redrawing after a schema reload.
package pubsub

import (
	"context"
	"sync"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// SchemaReloaded is published after a schema directory change dropped
	// the cached schemas.
	SchemaReloaded EventType = "schema.reloaded"
)

// Event carries a typed payload.
type Event[T any] struct {
	Type    EventType
	Payload T
	At      time.Time
}

// Subscriber hands out event channels that close once ctx is done.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Broker delivers every published event to each subscriber. A subscriber
// that has not drained its pending event misses newer ones, so a burst of
// changes collapses into a single notification.
type Broker[T any] struct {
	mu     sync.Mutex
	subs   map[chan Event[T]]struct{}
	closed bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{subs: make(map[chan Event[T]]struct{})}
}

func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch
}

func (b *Broker[T]) unsubscribe(ch chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// Publish never blocks.
func (b *Broker[T]) Publish(typ EventType, payload T) {
	ev := Event[T]{Type: typ, Payload: payload, At: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes all subscriber channels. Later subscriptions get a closed
// channel. Safe to call twice.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribers reports the number of open subscriptions.
func (b *Broker[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
