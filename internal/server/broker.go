package server

import (
	"encoding/json"
	"sync"

	"github.com/csquest/api/internal/game"
)

// sseMessage is one encoded event for a player's stream.
type sseMessage struct {
	Type string
	Data []byte
}

// Broker is an in-process pub/sub for SSE events, keyed by player ID. It
// implements game.Publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan sseMessage]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan sseMessage]struct{}),
	}
}

// Subscribe returns a channel that receives the player's events.
func (b *Broker) Subscribe(playerID string) chan sseMessage {
	ch := make(chan sseMessage, 16)
	b.mu.Lock()
	if b.subs[playerID] == nil {
		b.subs[playerID] = make(map[chan sseMessage]struct{})
	}
	b.subs[playerID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the player's subscribers.
func (b *Broker) Unsubscribe(playerID string, ch chan sseMessage) {
	b.mu.Lock()
	delete(b.subs[playerID], ch)
	if len(b.subs[playerID]) == 0 {
		delete(b.subs, playerID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given player. It never
// blocks.
func (b *Broker) Publish(playerID string, ev game.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs[playerID]) == 0 {
		return
	}
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return
	}
	msg := sseMessage{Type: ev.Type, Data: data}
	for ch := range b.subs[playerID] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
}
