// internal/game/types.go
//
// Core type definitions for the Schmordle guess engine.
// Defines:
//   - TileState: per-letter result of a guess (correct/present/absent).
//   - Tile: a guessed letter together with its state.
//   - GuessResult: one accepted guess with its full feedback row.
//   - Session: state for a single solo/daily guess session.

package game

// TileState classifies a single guessed letter against the target word.
// Possible values:
//   - "correct": letter is in the target at this exact position.
//   - "present": letter is in the target but at a different position.
//   - "absent":  letter does not appear in the (remaining) target at all.
type TileState string

const (
	TileCorrect TileState = "correct"
	TilePresent TileState = "present"
	TileAbsent  TileState = "absent"
)

// Tile pairs a guessed letter with its evaluated state.
type Tile struct {
	Letter string    `json:"letter"`
	State  TileState `json:"state"`
}

// GuessResult records one accepted guess, its tile feedback, and whether it won.
type GuessResult struct {
	Guess    string `json:"guess"`
	Feedback []Tile `json:"feedback"`
	IsWin    bool   `json:"isWin"`
}

// Session holds the state of a single solo or daily guess session.
// The target is fixed at creation (or on re-arm) and the session runs
// active → won | lost, both terminal, bounded at MaxGuesses guesses.
type Session struct {
	ID       string        // Unique session identifier (random hex string).
	RhymeSet string        // ID of the rhyme set this session plays against.
	Target   string        // The solution word (always uppercase).
	SetWords []string      // Uppercase members of the rhyme set (legal without oracle).
	Guesses  []GuessResult // Accepted guesses so far, in order.
	Finished bool          // True once the session is over (won or lost).
	Won      bool          // True if the session finished with a win.
}
