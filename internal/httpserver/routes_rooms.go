// internal/httpserver/routes_rooms.go
//
// Multiplayer room endpoints. These are the authoritative write path for
// room state — the websocket relay (ws.go) never touches the store. Every
// mutation lands in the room store, whose change subscriptions push fresh
// snapshots to connected clients.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/rooms"
)

// roomRes wraps a room snapshot with the server-computed clock.
type roomRes struct {
	Room             *rooms.Room `json:"room"`
	RemainingSeconds int         `json:"remainingSeconds"`
}

func (s *Server) writeRoom(w http.ResponseWriter, r *rooms.Room) {
	_ = json.NewEncoder(w).Encode(roomRes{Room: r, RemainingSeconds: s.rooms.Remaining(r)})
}

// identity resolves the caller to a stable user id: the authenticated user
// if present, otherwise the anonymous cookie id.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

type createRoomReq struct {
	UserName string `json:"userName"`
}

// handleCreateRoom creates a lobby with the caller as host.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.UserName == "" {
		req.UserName = "Player"
	}

	room, err := s.rooms.CreateRoom(r.Context(), s.identity(w, r), req.UserName)
	if err != nil {
		log.Error().Err(err).Msg("create room")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	s.writeRoom(w, room)
}

// handleGetRoom returns the room snapshot (authoritative status included).
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.rooms.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRoomError(w, err)
		return
	}
	s.writeRoom(w, room)
}

type joinRoomReq struct {
	UserName string `json:"userName"`
}

// handleJoinRoom adds the caller to the room's player map (idempotent).
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.UserName == "" {
		req.UserName = "Player"
	}

	room, err := s.rooms.JoinRoom(r.Context(), chi.URLParam(r, "id"), s.identity(w, r), req.UserName)
	if err != nil {
		s.writeRoomError(w, err)
		return
	}
	s.writeRoom(w, room)
}

type startRoomReq struct {
	DurationSeconds int `json:"durationSeconds"`
}

// handleStartRoom starts the round. Host-only; timestamps server-assigned.
func (s *Server) handleStartRoom(w http.ResponseWriter, r *http.Request) {
	var req startRoomReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	room, err := s.rooms.StartGame(r.Context(), chi.URLParam(r, "id"), s.identity(w, r), req.DurationSeconds)
	if err != nil {
		s.writeRoomError(w, err)
		return
	}
	s.writeRoom(w, room)
}

type submitWordReq struct {
	Word     string `json:"word"`
	UserName string `json:"userName"`
}

// handleSubmitWord records a word through the validated path. Acceptance is
// atomic against the room document: at most one player ever lands a given
// word, no matter how the submissions race.
func (s *Server) handleSubmitWord(w http.ResponseWriter, r *http.Request) {
	var req submitWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.UserName == "" {
		req.UserName = "Player"
	}

	room, err := s.rooms.SubmitWord(r.Context(), chi.URLParam(r, "id"), s.identity(w, r), req.UserName, req.Word)
	if err != nil {
		s.writeRoomError(w, err)
		return
	}
	s.writeRoom(w, room)
}

// writeRoomError maps room errors onto the HTTP taxonomy: 404 unknown room,
// 409 conflicts (duplicates, bad phase), 400 malformed words, 500 the rest.
func (s *Server) writeRoomError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rooms.ErrWordLength), errors.Is(err, rooms.ErrWordNotInSet):
		status = http.StatusBadRequest
	case errors.Is(err, rooms.ErrDuplicateWord),
		errors.Is(err, rooms.ErrRoomNotPlaying),
		errors.Is(err, rooms.ErrRoundOver),
		errors.Is(err, rooms.ErrRoomClosed),
		errors.Is(err, rooms.ErrAlreadyStarted),
		errors.Is(err, rooms.ErrNotHost):
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("room operation")
		status = http.StatusInternalServerError
		err = errors.New("internal error")
	}
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(b), status)
}
