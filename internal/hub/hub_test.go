package hub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records delivered events and can be flipped to fail.
type fakeSender struct {
	id     string
	events []Event
	broken bool
}

func (f *fakeSender) ID() string { return f.id }

func (f *fakeSender) Send(ev Event) error {
	if f.broken {
		return errors.New("connection closed")
	}
	f.events = append(f.events, ev)
	return nil
}

func TestJoinAnnouncesToEveryoneIncludingSelf(t *testing.T) {
	h := New()
	a := &fakeSender{id: "a"}
	b := &fakeSender{id: "b"}

	h.Join("ROOM01", a)
	h.Join("ROOM01", b)

	// a sees its own join and b's; b sees only its own.
	require.Len(t, a.events, 2)
	assert.Equal(t, EventPlayerJoined, a.events[0].Type)
	assert.Equal(t, map[string]string{"id": "a"}, a.events[0].Payload)
	assert.Equal(t, map[string]string{"id": "b"}, a.events[1].Payload)

	require.Len(t, b.events, 1)
	assert.Equal(t, map[string]string{"id": "b"}, b.events[0].Payload)
	assert.Equal(t, 2, h.Count("ROOM01"))
}

func TestBroadcastIsScopedToRoom(t *testing.T) {
	h := New()
	a := &fakeSender{id: "a"}
	b := &fakeSender{id: "b"}
	h.Join("ROOM01", a)
	h.Join("ROOM02", b)
	a.events, b.events = nil, nil

	h.Broadcast("ROOM01", Event{Type: EventGuess, Payload: "SOUND"})

	require.Len(t, a.events, 1)
	assert.Equal(t, EventGuess, a.events[0].Type)
	assert.Empty(t, b.events)
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	h := New()
	alive := &fakeSender{id: "alive"}
	dead := &fakeSender{id: "dead", broken: true}
	h.Join("ROOM01", alive)

	// Insert the dead sender without Join so the failure surfaces on the
	// broadcast under test, not on the join announcement.
	h.mu.Lock()
	h.rooms["ROOM01"][dead] = struct{}{}
	h.mu.Unlock()
	alive.events = nil

	h.Broadcast("ROOM01", Event{Type: EventRoomState})
	require.Len(t, alive.events, 1, "a dead socket must not abort delivery")
	assert.Equal(t, 1, h.Count("ROOM01"))

	// The dead connection is gone; later broadcasts reach only the living.
	h.Broadcast("ROOM01", Event{Type: EventRoomState})
	assert.Len(t, alive.events, 2)
}

func TestLeavePrunesEmptyRoomEntry(t *testing.T) {
	h := New()
	a := &fakeSender{id: "a"}
	h.Join("ROOM01", a)
	h.Leave("ROOM01", a)

	assert.Equal(t, 0, h.Count("ROOM01"))
	h.mu.RLock()
	_, exists := h.rooms["ROOM01"]
	h.mu.RUnlock()
	assert.False(t, exists, "empty room entry must be pruned")

	// Leaving a room you never joined is a no-op.
	h.Leave("NOPE", a)
}
