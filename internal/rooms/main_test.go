package rooms

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/schmordle/go-server/internal/words"
)

func TestMain(m *testing.M) {
	if err := words.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fixedNow returns a now func pinned to t, controllable via the pointer.
func fixedNow(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

// playingRoom seeds a store with a room mid-round on the -OUND set.
func playingRoom(t *testing.T, s Store, now time.Time, duration int) *Room {
	t.Helper()
	start := now
	end := start.Add(time.Duration(duration) * time.Second)
	r := &Room{
		RoomID:          NewCode(),
		HostID:          "host",
		Status:          StatusPlaying,
		Players:         map[string]string{"host": "Hosty", "p2": "Guest"},
		RhymeSetID:      "set_ound",
		DurationSeconds: duration,
		StartTime:       &start,
		EndTime:         &end,
		Submissions:     []Submission{},
	}
	if err := s.Create(context.Background(), r); err != nil {
		t.Fatalf("seed room: %v", err)
	}
	return r
}
