// internal/rooms/lifecycle.go
//
// Room lifecycle orchestration: create/join/start transitions plus the
// server-authoritative completion policy. The baseline product never wrote
// the completed status — clients inferred it from their local timer — so
// here the server flips it instead: lazily whenever an expired room is read
// or submitted to, and via a periodic sweep that also prunes old completed
// rooms from the store.

package rooms

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/words"
)

// maxCodeAttempts bounds room-code regeneration on collision.
const maxCodeAttempts = 16

// defaultRetention is how long a completed room stays readable before the
// sweep deletes it.
const defaultRetention = time.Hour

// Lifecycle composes the Store and Validator behind the room operations.
type Lifecycle struct {
	store     Store
	validator *Validator
	now       func() time.Time
	retention time.Duration
}

// NewLifecycle constructs a Lifecycle over the store. now may be nil for
// time.Now.
func NewLifecycle(store Store, now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{
		store:     store,
		validator: NewValidator(store, now),
		now:       now,
		retention: defaultRetention,
	}
}

// CreateRoom picks a random rhyme set, draws a room code that does not
// collide with any active room (redrawing on collision), and persists the
// lobby with the host as its only player.
func (l *Lifecycle) CreateRoom(ctx context.Context, hostID, hostName string) (*Room, error) {
	set := words.RandomSet()
	for i := 0; i < maxCodeAttempts; i++ {
		room := &Room{
			RoomID:          NewCode(),
			HostID:          hostID,
			Status:          StatusLobby,
			Players:         map[string]string{hostID: hostName},
			RhymeSetID:      set.ID,
			DurationSeconds: DefaultDurationSeconds,
			Submissions:     []Submission{},
		}
		err := l.store.Create(ctx, room)
		if err == ErrRoomExists {
			continue
		}
		if err != nil {
			return nil, err
		}
		return room, nil
	}
	return nil, ErrRoomExists
}

// JoinRoom adds (or re-adds) the player to the room. The write is an
// idempotent partial update and deliberately does not check status: late
// joiners are allowed, matching the baseline behavior.
func (l *Lifecycle) JoinRoom(ctx context.Context, roomID, userID, userName string) (*Room, error) {
	roomID = normalizeCode(roomID)
	return l.store.Update(ctx, roomID, func(r *Room) error {
		r.Players[userID] = userName
		return nil
	})
}

// StartGame transitions lobby → playing. Only the host may start; the
// start/end timestamps are server-assigned so client clock skew cannot
// corrupt the shared timer. durationSeconds ≤ 0 takes the default, and
// anything below the floor is raised to it.
func (l *Lifecycle) StartGame(ctx context.Context, roomID, userID string, durationSeconds int) (*Room, error) {
	roomID = normalizeCode(roomID)
	return l.store.Update(ctx, roomID, func(r *Room) error {
		if r.HostID != userID {
			return ErrNotHost
		}
		switch r.Status {
		case StatusLobby:
		case StatusPlaying:
			return ErrAlreadyStarted
		default:
			return ErrRoomClosed
		}
		if durationSeconds <= 0 {
			durationSeconds = DefaultDurationSeconds
		}
		if durationSeconds < MinDurationSeconds {
			durationSeconds = MinDurationSeconds
		}
		start := l.now().UTC()
		end := start.Add(time.Duration(durationSeconds) * time.Second)
		r.Status = StatusPlaying
		r.DurationSeconds = durationSeconds
		r.StartTime = &start
		r.EndTime = &end
		return nil
	})
}

// GetRoom returns the room, flipping an expired round to completed first so
// every read observes the authoritative status.
func (l *Lifecycle) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	roomID = normalizeCode(roomID)
	r, err := l.store.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !r.Expired(l.now()) {
		return r, nil
	}
	return l.store.Update(ctx, roomID, func(r *Room) error {
		if r.Expired(l.now()) {
			r.Status = StatusCompleted
		}
		return nil
	})
}

// SubmitWord records a word through the authoritative validated path.
func (l *Lifecycle) SubmitWord(ctx context.Context, roomID, userID, userName, word string) (*Room, error) {
	return l.validator.Submit(ctx, normalizeCode(roomID), userID, userName, word)
}

// Remaining reports the seconds left in the room's round at the server's now.
func (l *Lifecycle) Remaining(r *Room) int {
	return Remaining(r, l.now())
}

// Sweep flips every expired playing room to completed and deletes completed
// rooms past the retention window. Returns (completed, deleted) counts.
// Safe to call from a ticker goroutine; per-room failures are logged and
// skipped so one bad document cannot stall the sweep.
func (l *Lifecycle) Sweep(ctx context.Context) (int, int) {
	now := l.now()
	completed, deleted := 0, 0

	playing, err := l.store.List(ctx, StatusPlaying)
	if err != nil {
		log.Warn().Err(err).Msg("sweep: list playing rooms")
		return 0, 0
	}
	for _, r := range playing {
		if !r.Expired(now) {
			continue
		}
		if _, err := l.store.Update(ctx, r.RoomID, func(r *Room) error {
			if r.Expired(now) {
				r.Status = StatusCompleted
			}
			return nil
		}); err != nil {
			log.Warn().Err(err).Str("roomId", r.RoomID).Msg("sweep: complete room")
			continue
		}
		completed++
	}

	done, err := l.store.List(ctx, StatusCompleted)
	if err != nil {
		log.Warn().Err(err).Msg("sweep: list completed rooms")
		return completed, 0
	}
	for _, r := range done {
		if r.EndTime == nil || now.Sub(*r.EndTime) < l.retention {
			continue
		}
		if err := l.store.Delete(ctx, r.RoomID); err != nil {
			log.Warn().Err(err).Str("roomId", r.RoomID).Msg("sweep: delete room")
			continue
		}
		deleted++
	}
	return completed, deleted
}

// normalizeCode uppercases a player-typed room code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
