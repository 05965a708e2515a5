package rooms

import "crypto/rand"

// codeAlphabet deliberately has no lookalike pairs beyond what players
// already tolerate in invite codes; uppercase to match manual entry.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of a room invite code.
const CodeLength = 6

// NewCode generates a random 6-character alphanumeric room code.
// Uniqueness against active rooms is the caller's job (regenerate on collision).
func NewCode() string {
	var b [CodeLength]byte
	_, _ = rand.Read(b[:])
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b[:])
}
