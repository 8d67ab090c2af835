// Package notify implements the catalog change broadcast channel.
//
// There is a single event type with no payload beyond a timestamp. Consumers
// that care about what changed re-read the repository; they must tolerate
// notifications where nothing relevant to them changed.
package notify

import (
	"sync"
	"time"
)

// Event carries the change notification.
type Event struct {
	Timestamp time.Time
}

// Handler receives change events. Handlers are invoked synchronously, in
// subscription order, once per Publish call.
type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

// Broadcaster fans change events out to subscribers.
// Notifications are not coalesced: N publishes deliver N events.
type Broadcaster struct {
	mu     sync.Mutex
	subs   []subscriber
	nextID int
}

// New creates an empty broadcaster.
func New() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a handler and returns a function that removes it.
// Consumers that live for the whole process can discard the unsubscribe.
func (b *Broadcaster) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers one event to every current subscriber, in subscription
// order, before returning.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	ev := Event{Timestamp: time.Now()}
	for _, s := range subs {
		s.fn(ev)
	}
}

// Len returns the number of current subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
