package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func states(tiles []Tile) []TileState {
	out := make([]TileState, len(tiles))
	for i, t := range tiles {
		out[i] = t.State
	}
	return out
}

func TestFeedbackExactMatchAllCorrect(t *testing.T) {
	for _, target := range []string{"SOUND", "SHAKE", "SPEED", "BATCH"} {
		tiles, err := Feedback(target, target)
		require.NoError(t, err)
		assert.Equal(t, []TileState{TileCorrect, TileCorrect, TileCorrect, TileCorrect, TileCorrect}, states(tiles), target)
	}
}

func TestFeedbackDuplicateLetters(t *testing.T) {
	// Target SPEED has two Es; ELDER must consume them correctly:
	// first E is present, the E at index 3 is an exact match, and the
	// leftover R/L are absent. D appears once and is present.
	tiles, err := Feedback("ELDER", "SPEED")
	require.NoError(t, err)
	assert.Equal(t, []TileState{TilePresent, TileAbsent, TilePresent, TileCorrect, TileAbsent}, states(tiles))
}

func TestFeedbackPositionBeatsMultiset(t *testing.T) {
	// The single O in SOUND is claimed by the exact match at index 1;
	// the second O in the guess must not also show as present.
	tiles, err := Feedback("BOOST", "SOUND")
	require.NoError(t, err)
	assert.Equal(t, TileCorrect, tiles[1].State)
	assert.Equal(t, TileAbsent, tiles[2].State)
}

func TestFeedbackNeverOvercountsLetters(t *testing.T) {
	cases := []struct{ guess, target string }{
		{"ELDER", "SPEED"},
		{"EEEEE", "SPEED"},
		{"SPEED", "ELDER"},
		{"ROUND", "SOUND"},
		{"MAMMA", "MADAM"},
	}
	for _, tc := range cases {
		tiles, err := Feedback(tc.guess, tc.target)
		require.NoError(t, err)
		for letter := byte('A'); letter <= 'Z'; letter++ {
			marked := 0
			for i, tile := range tiles {
				if tc.guess[i] == letter && tile.State != TileAbsent {
					marked++
				}
			}
			inTarget := strings.Count(tc.target, string(letter))
			assert.LessOrEqual(t, marked, inTarget,
				"%s vs %s overcounts %c", tc.guess, tc.target, letter)
		}
	}
}

func TestFeedbackNormalizesCase(t *testing.T) {
	tiles, err := Feedback(" sound ", "SOUND")
	require.NoError(t, err)
	assert.True(t, allCorrect(tiles))
}

func TestFeedbackRejectsBadShapes(t *testing.T) {
	for _, guess := range []string{"", "FOUR", "SIXSIX", "S0UND", "SOUN!"} {
		_, err := Feedback(guess, "SOUND")
		assert.Error(t, err, guess)
	}
}
