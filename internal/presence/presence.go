// Package presence relays player positions between connected clients of
// the shared world map. It is a single-process hub with no persistence.
package presence

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Spawn point for newly joined players.
const (
	SpawnX = 512
	SpawnY = 384
)

// Message types.
const (
	TypeJoinGame     = "joinGame"
	TypeMove         = "move"
	TypeJoined       = "joined"
	TypePlayersList  = "playersList"
	TypePlayerJoined = "playerJoined"
	TypePlayerMoved  = "playerMoved"
	TypePlayerLeft   = "playerLeft"
)

type Player struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    int     `json:"color"`
	Level    int     `json:"level"`
}

// Message is the envelope for every frame in both directions. Only the
// fields relevant to Type are set.
type Message struct {
	Type     string   `json:"type"`
	ID       string   `json:"id,omitempty"`
	Username string   `json:"username,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Player   *Player  `json:"player,omitempty"`
	Players  []Player `json:"players,omitempty"`
}

type member struct {
	player Player
	send   chan []byte
}

type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	members map[string]*member
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		members: make(map[string]*member),
	}
}

// Join registers a player at the spawn point. The returned channel
// receives encoded messages for this player until Leave is called. The
// joiner gets its id and the player list; everyone else is notified.
func (h *Hub) Join(username string) (string, <-chan []byte) {
	id := uuid.NewString()
	if username == "" {
		username = "Player_" + id[:6]
	}
	m := &member{
		player: Player{
			ID:       id,
			Username: username,
			X:        SpawnX,
			Y:        SpawnY,
			Color:    rand.IntN(0xffffff + 1),
			Level:    1,
		},
		send: make(chan []byte, 32),
	}

	h.mu.Lock()
	h.members[id] = m
	players := h.playersLocked()
	h.mu.Unlock()

	p := m.player
	h.deliver(m, Message{Type: TypeJoined, ID: id})
	h.deliver(m, Message{Type: TypePlayersList, Players: players})
	h.broadcast(id, Message{Type: TypePlayerJoined, Player: &p})

	h.logger.Info("player joined world", "presence_id", id, "username", username)
	return id, m.send
}

// Move updates a player's position and tells the others. Unknown ids are
// ignored.
func (h *Hub) Move(id string, x, y float64) {
	h.mu.Lock()
	m, ok := h.members[id]
	if ok {
		m.player.X, m.player.Y = x, y
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	h.broadcast(id, Message{Type: TypePlayerMoved, ID: id, X: x, Y: y})
}

// Leave removes the player and closes its channel.
func (h *Hub) Leave(id string) {
	h.mu.Lock()
	m, ok := h.members[id]
	delete(h.members, id)
	h.mu.Unlock()
	if !ok {
		return
	}
	close(m.send)
	h.broadcast(id, Message{Type: TypePlayerLeft, ID: id})
	h.logger.Info("player left world", "presence_id", id)
}

// Players returns a snapshot of everyone connected, ordered by id.
func (h *Hub) Players() []Player {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.playersLocked()
}

func (h *Hub) playersLocked() []Player {
	out := make([]Player, 0, len(h.members))
	for _, m := range h.members {
		out = append(out, m.player)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *Hub) broadcast(except string, msg Message) {
	data, _ := json.Marshal(msg)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, m := range h.members {
		if id == except {
			continue
		}
		select {
		case m.send <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
}

func (h *Hub) deliver(m *member, msg Message) {
	data, _ := json.Marshal(msg)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.members[m.player.ID]; !ok {
		return
	}
	select {
	case m.send <- data:
	default:
	}
}
