// internal/game/feedback.go
//
// Tile feedback for a guess against a target word.
// Responsibilities:
//   - Normalize and validate guess/target shape (exactly 5 letters A–Z).
//   - Score guesses using the two-pass multiset algorithm.
//
// Notes:
//   - Pure and deterministic: no I/O, no session state.
//   - Pass order matters: exact position matches always claim a letter
//     before any positional mismatch can consume it.

package game

import (
	"errors"
	"strings"
)

// WordLength is the fixed word length for every rhyme set and guess.
const WordLength = 5

var errWordShape = errors.New("word must be exactly 5 letters")

// Feedback scores guess against target and returns one Tile per position.
//
// Pass 1:
//   - Mark exact matches as correct and consume that letter from the
//     target's letter counts.
//
// Pass 2:
//   - For each remaining position: if the guessed letter still has count
//     available, mark present and consume it; otherwise mark absent.
//
// This resolves duplicate letters correctly in both guess and target.
func Feedback(guess, target string) ([]Tile, error) {
	guess = Normalize(guess)
	target = Normalize(target)
	if !isWordShaped(guess) || !isWordShaped(target) {
		return nil, errWordShape
	}

	tiles := make([]Tile, WordLength)

	// Letter counts for target positions not claimed by an exact match (A–Z).
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		tiles[i] = Tile{Letter: string(guess[i]), State: TileAbsent}
		if guess[i] == target[i] {
			tiles[i].State = TileCorrect
		} else {
			counts[target[i]-'A']++
		}
	}

	for i := 0; i < WordLength; i++ {
		if tiles[i].State == TileCorrect {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			tiles[i].State = TilePresent
			counts[j]--
		}
	}
	return tiles, nil
}

// Normalize trims whitespace and uppercases a word.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// isWordShaped reports whether s is exactly WordLength uppercase ASCII letters.
func isWordShaped(s string) bool {
	if len(s) != WordLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// allCorrect returns true if every tile is marked correct.
func allCorrect(tiles []Tile) bool {
	for _, t := range tiles {
		if t.State != TileCorrect {
			return false
		}
	}
	return true
}
