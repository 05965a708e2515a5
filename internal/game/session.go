// internal/game/session.go
//
// Guess session state machine for the solo and daily modes.
// Responsibilities:
//   - Create sessions bound to a rhyme set and a fixed target word.
//   - Validate and apply guesses (shape, legality, bounded history).
//   - Track state transitions: active → won/lost (both terminal).
//   - Re-arm a session in place when a new set/target is assigned.
//
// Legality of a guess is the union of two checks: membership in the
// session's rhyme-set word list, or confirmation by an external dictionary
// oracle. The oracle is an injected func so the engine stays free of I/O;
// an oracle failure simply reports "not a word" and never blocks the session.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// MaxGuesses bounds a session's guess history.
const MaxGuesses = 6

var (
	ErrSessionFinished = errors.New("session finished")
	ErrNotLegal        = errors.New("not a valid word")
)

// Oracle reports whether word is a real word in the game's language.
// Implementations may call out over the network; a lookup failure must
// degrade to false rather than hang.
type Oracle func(ctx context.Context, word string) bool

// NewSession constructs an active session for one target word.
func NewSession(rhymeSetID, target string, setWords []string) *Session {
	s := &Session{ID: randomID()}
	s.Rearm(rhymeSetID, target, setWords)
	return s
}

// Rearm resets the session to a fresh active state with a new target.
// The session ID is kept so callers can hold onto their handle.
func (s *Session) Rearm(rhymeSetID, target string, setWords []string) {
	s.RhymeSet = rhymeSetID
	s.Target = Normalize(target)
	s.SetWords = make([]string, len(setWords))
	for i, w := range setWords {
		s.SetWords[i] = Normalize(w)
	}
	s.Guesses = nil
	s.Finished = false
	s.Won = false
}

// State reports a coarse string representation of the session state.
func (s *Session) State() string {
	if s.Finished {
		if s.Won {
			return "won"
		}
		return "lost"
	}
	return "active"
}

// Submit validates and applies one guess, mutating the session.
// Returns the accepted guess with its feedback and the new state string.
//
// Rejections (shape, legality, finished session) are non-fatal: the
// session state is unchanged and the error is meant for the caller only.
func (s *Session) Submit(ctx context.Context, guess string, oracle Oracle) (GuessResult, string, error) {
	if s.Finished {
		return GuessResult{}, s.State(), ErrSessionFinished
	}
	guess = Normalize(guess)
	if !isWordShaped(guess) {
		return GuessResult{}, s.State(), errWordShape
	}
	if !s.isLegal(ctx, guess, oracle) {
		return GuessResult{}, s.State(), ErrNotLegal
	}

	tiles, err := Feedback(guess, s.Target)
	if err != nil {
		return GuessResult{}, s.State(), err
	}

	res := GuessResult{Guess: guess, Feedback: tiles, IsWin: allCorrect(tiles)}
	s.Guesses = append(s.Guesses, res)

	if res.IsWin {
		s.Finished, s.Won = true, true
	} else if len(s.Guesses) >= MaxGuesses {
		s.Finished = true
	}
	return res, s.State(), nil
}

// isLegal accepts rhyme-set members outright, then falls back to the oracle.
func (s *Session) isLegal(ctx context.Context, guess string, oracle Oracle) bool {
	for _, w := range s.SetWords {
		if w == guess {
			return true
		}
	}
	return oracle != nil && oracle(ctx, guess)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
