// internal/httpserver/ws.go
//
// Realtime endpoint. Two capabilities ride on one socket:
//   - an ephemeral relay: "guess" envelopes are rebroadcast to the room
//     as-is, deliberately NOT validated — the authoritative record of
//     submissions is only ever written via POST /rooms/{id}/submit;
//   - a room state feed: joining subscribes the connection to the room
//     store, so every committed mutation pushes a full snapshot (and a
//     room-closed event when the room is deleted).
//
// The hub keeps no backlog; a reconnecting client re-fetches state with
// GET /rooms/{id} before rejoining.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/hub"
	"github.com/schmordle/go-server/internal/rooms"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the game frontend; CORS
	// for the HTTP surface is enforced separately in corsFromEnv.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsEnvelope is the client→server message frame.
type wsEnvelope struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsSession tracks which rooms one connection has joined.
type wsSession struct {
	client *hub.Client
	hub    *hub.Hub

	mu     sync.Mutex
	joined map[string]*rooms.Subscription
}

// handleWebsocket upgrades the connection and runs its read loop.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	sess := &wsSession{
		client: hub.NewClient(conn),
		hub:    s.hub,
		joined: make(map[string]*rooms.Subscription),
	}
	log.Debug().Str("connId", sess.client.ID()).Msg("websocket connected")

	defer func() {
		sess.leaveAll()
		sess.client.Close()
		log.Debug().Str("connId", sess.client.ID()).Msg("websocket disconnected")
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return // client disconnected
		}
		var env wsEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Debug().Err(err).Msg("invalid websocket message")
			continue
		}
		roomID := strings.ToUpper(strings.TrimSpace(env.RoomID))
		if roomID == "" {
			continue
		}

		switch env.Type {
		case "join-room":
			s.joinRoomFeed(sess, roomID)
		case "guess":
			// Ephemeral UI relay only — nothing here is recorded.
			s.hub.Broadcast(roomID, hub.Event{Type: hub.EventGuess, Payload: env.Payload})
		case "leave-room":
			sess.leave(roomID)
		default:
			log.Debug().Str("type", env.Type).Msg("unknown websocket message type")
		}
	}
}

// joinRoomFeed adds the connection to the hub room and subscribes it to the
// room store's change stream.
func (s *Server) joinRoomFeed(sess *wsSession, roomID string) {
	sess.mu.Lock()
	if _, already := sess.joined[roomID]; already {
		sess.mu.Unlock()
		return
	}
	// Reserve the slot before subscribing so a racing snapshot cannot
	// double-join.
	sess.joined[roomID] = nil
	sess.mu.Unlock()

	sub := s.roomStore.Subscribe(roomID, func(r *rooms.Room) {
		if r == nil {
			_ = sess.client.Send(hub.Event{Type: hub.EventRoomClosed})
			sess.leave(roomID)
			return
		}
		_ = sess.client.Send(hub.Event{Type: hub.EventRoomState, Payload: r})
	})

	sess.mu.Lock()
	sess.joined[roomID] = sub
	sess.mu.Unlock()

	s.hub.Join(roomID, sess.client)
}

// leave drops one room membership; silent if not joined.
func (sess *wsSession) leave(roomID string) {
	sess.mu.Lock()
	sub, ok := sess.joined[roomID]
	delete(sess.joined, roomID)
	sess.mu.Unlock()
	if !ok {
		return
	}
	if sub != nil {
		sub.Cancel()
	}
	sess.hub.Leave(roomID, sess.client)
}

// leaveAll is the disconnect path: leave every joined room.
func (sess *wsSession) leaveAll() {
	sess.mu.Lock()
	joined := make(map[string]*rooms.Subscription, len(sess.joined))
	for id, sub := range sess.joined {
		joined[id] = sub
	}
	sess.joined = make(map[string]*rooms.Subscription)
	sess.mu.Unlock()

	for id, sub := range joined {
		if sub != nil {
			sub.Cancel()
		}
		sess.hub.Leave(id, sess.client)
	}
}
