// internal/rooms/validator.go
//
// Authoritative submission path for multiplayer words. This is the one true
// race in the system: the uniqueness check and the append must be one atomic
// operation against the Store, so concurrent submissions of the same word
// yield exactly one acceptance.

package rooms

import (
	"context"
	"strings"
	"time"

	"github.com/schmordle/go-server/internal/words"
)

// Validator validates and atomically records word submissions.
type Validator struct {
	store Store
	now   func() time.Time
}

// NewValidator constructs a Validator. now may be nil for time.Now.
func NewValidator(store Store, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{store: store, now: now}
}

// Submit checks, in order: room playing, word shape, rhyme-set membership,
// room-wide duplicate — then appends the submission. The whole check-and-
// append runs inside one Store.Update, so two concurrent submissions of the
// same word serialize and the loser sees ErrDuplicateWord; submissions of
// distinct legal words both land, ordered by acceptance.
//
// If the round clock has already run out, the room is flipped to completed
// (that write is committed) and ErrRoundOver is returned.
func (v *Validator) Submit(ctx context.Context, roomID, userID, userName, word string) (*Room, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	expired := false

	snap, err := v.store.Update(ctx, roomID, func(r *Room) error {
		now := v.now()
		if r.Expired(now) {
			expired = true
			r.Status = StatusCompleted
			return nil
		}
		switch r.Status {
		case StatusPlaying:
		case StatusCompleted:
			return ErrRoomClosed
		default:
			return ErrRoomNotPlaying
		}
		if !isCodeWord(word) {
			return ErrWordLength
		}
		if !words.InSet(r.RhymeSetID, word) {
			return ErrWordNotInSet
		}
		if r.HasSubmission(word) {
			return ErrDuplicateWord
		}
		r.Submissions = append(r.Submissions, Submission{
			UserID:    userID,
			UserName:  userName,
			Word:      word,
			Timestamp: now.UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return snap, ErrRoundOver
	}
	return snap, nil
}

// isCodeWord reports whether w is exactly 5 uppercase ASCII letters.
func isCodeWord(w string) bool {
	if len(w) != 5 {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}
