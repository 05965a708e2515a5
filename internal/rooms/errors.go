package rooms

import "errors"

// Common errors. Validation errors are non-fatal: room state is unchanged
// and the error is reported to the originating caller only.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomExists     = errors.New("room code already in use")
	ErrRoomNotPlaying = errors.New("room is not in a playing round")
	ErrRoundOver      = errors.New("round time has expired")
	ErrNotHost        = errors.New("only the host can start the game")
	ErrAlreadyStarted = errors.New("game already started")
	ErrRoomClosed     = errors.New("room is completed")
	ErrWordLength     = errors.New("word must be exactly 5 letters")
	ErrWordNotInSet   = errors.New("word is not in this room's rhyme set")
	ErrDuplicateWord  = errors.New("word was already submitted in this room")
)
