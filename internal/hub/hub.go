// internal/hub/hub.go
//
// BroadcastHub: maps room ids to the set of live connections and fans
// events out to them. The hub owns delivery only — never game state; a
// reconnecting client re-fetches the room from the store, the hub keeps no
// backlog. Delivery is best-effort, at-most-once, in-order per connection.
//
// The hub is an explicit process-scoped object created at server start and
// passed to handlers (no package-level registry), and a room's entry is
// pruned when its last connection leaves.

package hub

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Event is the JSON envelope fanned out to room members.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Event types emitted by the hub and the websocket relay.
const (
	EventPlayerJoined = "player-joined"
	EventGuess        = "guess"
	EventRoomState    = "room-state"
	EventRoomClosed   = "room-closed"
)

// Sender is the transport half the hub needs from a connection. Send must
// report an error once the connection is closed; the hub then drops it.
type Sender interface {
	ID() string
	Send(ev Event) error
}

// Hub is the room → connections registry.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Sender]struct{}
}

// New constructs an empty Hub.
func New() *Hub {
	return &Hub{rooms: make(map[string]map[Sender]struct{})}
}

// Join adds the connection to the room and announces it to every member,
// including the new connection itself.
func (h *Hub) Join(roomID string, s Sender) {
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[Sender]struct{})
	}
	h.rooms[roomID][s] = struct{}{}
	h.mu.Unlock()

	h.Broadcast(roomID, Event{
		Type:    EventPlayerJoined,
		Payload: map[string]string{"id": s.ID()},
	})
}

// Leave removes the connection silently, pruning the room entry when it was
// the last member.
func (h *Hub) Leave(roomID string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomID], s)
	if len(h.rooms[roomID]) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast sends ev to every live connection in the room. A connection
// whose Send fails is dropped and skipped — one dead or stalled socket
// never aborts delivery to the rest.
func (h *Hub) Broadcast(roomID string, ev Event) {
	h.mu.RLock()
	members := make([]Sender, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if err := s.Send(ev); err != nil {
			log.Debug().Err(err).Str("roomId", roomID).Str("connId", s.ID()).
				Msg("dropping dead connection from broadcast")
			h.Leave(roomID, s)
		}
	}
}

// Count reports how many connections are in the room.
func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
