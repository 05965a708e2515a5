// internal/rooms/room.go
//
// Room document model for multiplayer rounds.
// A Room is the canonical shared state of one timed multiplayer session:
// who is in it, which rhyme set it plays, when the round started, and the
// append-only sequence of accepted submissions. All mutation goes through
// the Store; everything handed out of the Store is a deep copy.

package rooms

import (
	"strings"
	"time"
)

// Status is a room's lifecycle phase. Transitions are monotonic:
// lobby → playing → completed, no regressions.
type Status string

const (
	StatusLobby     Status = "lobby"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

const (
	// DefaultDurationSeconds is the round length when the host does not choose one.
	DefaultDurationSeconds = 120
	// MinDurationSeconds floors host-configured round lengths.
	MinDurationSeconds = 30
)

// Submission is one accepted word during a round.
type Submission struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Word      string    `json:"word"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is the persisted document for one multiplayer session.
type Room struct {
	RoomID          string            `json:"roomId"`
	HostID          string            `json:"hostId"`
	Status          Status            `json:"status"`
	Players         map[string]string `json:"players"` // userId → displayName
	RhymeSetID      string            `json:"rhymeSetId"`
	DurationSeconds int               `json:"durationSeconds"`
	StartTime       *time.Time        `json:"startTime,omitempty"`
	EndTime         *time.Time        `json:"endTime,omitempty"`
	Submissions     []Submission      `json:"submissions"`
}

// Clone returns a deep copy safe to hand to subscribers and callers.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Players = make(map[string]string, len(r.Players))
	for k, v := range r.Players {
		cp.Players[k] = v
	}
	cp.Submissions = make([]Submission, len(r.Submissions))
	copy(cp.Submissions, r.Submissions)
	if r.StartTime != nil {
		t := *r.StartTime
		cp.StartTime = &t
	}
	if r.EndTime != nil {
		t := *r.EndTime
		cp.EndTime = &t
	}
	return &cp
}

// HasSubmission reports whether word was already submitted by anyone in the
// room. Dedup is case-insensitive and room-wide, not per-player.
func (r *Room) HasSubmission(word string) bool {
	word = strings.ToUpper(strings.TrimSpace(word))
	for _, s := range r.Submissions {
		if strings.ToUpper(s.Word) == word {
			return true
		}
	}
	return false
}

// Expired reports whether a playing room's round has run out at now.
func (r *Room) Expired(now time.Time) bool {
	return r.Status == StatusPlaying && r.EndTime != nil && !now.Before(*r.EndTime)
}
