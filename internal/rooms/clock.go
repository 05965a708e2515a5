package rooms

import "time"

// Remaining derives the seconds left in a room's round at now.
//
// Before the round starts it reports the full configured duration. Once
// playing it is endTime − now, clamped at zero, computed only from the
// server-assigned timestamps stored on the room — a client-supplied "now"
// is never trusted. Reaching zero is informational; the authoritative
// completed transition is written by the Lifecycle.
func Remaining(r *Room, now time.Time) int {
	if r == nil {
		return 0
	}
	if r.Status != StatusPlaying || r.EndTime == nil {
		return r.DurationSeconds
	}
	left := int(r.EndTime.Sub(now) / time.Second)
	if left < 0 {
		return 0
	}
	return left
}
