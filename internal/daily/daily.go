package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SetIndex returns a deterministic rhyme-set index for a date using
// HMAC(salt, YYYY-MM-DD) % setCount, so every server instance picks the
// same daily set without coordination.
func SetIndex(date time.Time, salt string, setCount int) int {
	if setCount <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(setCount))
}
