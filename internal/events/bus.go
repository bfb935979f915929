// Package events fans model notifications out to IPC subscribers.
package events

import (
	"sync"

	"github.com/1broseidon/tilesync/internal/model"
)

const subscriberBuffer = 32

// Bus implements model.Emitter. Emit never blocks: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan model.Event
}

var _ model.Emitter = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan model.Event)}
}

// Subscribe returns a channel of events and a function that closes it.
func (b *Bus) Subscribe() (<-chan model.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan model.Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Bus) Emit(ev model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers reports the number of open subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
