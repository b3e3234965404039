package httpapi

import (
	"sync"

	"github.com/Frisk239/minpaixinyu-new/internal/game"
)

// Broker fans game events out to subscribed SSE streams. Slow subscribers
// drop events rather than block the game loop.
type Broker struct {
	mu   sync.Mutex
	subs map[chan game.GameEvent]struct{}
}

// NewBroker returns an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan game.GameEvent]struct{})}
}

// Subscribe registers a new event channel.
func (b *Broker) Subscribe() chan game.GameEvent {
	ch := make(chan game.GameEvent, 32)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes the channel.
func (b *Broker) Unsubscribe(ch chan game.GameEvent) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers ev to every subscriber without blocking.
func (b *Broker) Publish(ev game.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default: // subscriber is not keeping up
		}
	}
}
