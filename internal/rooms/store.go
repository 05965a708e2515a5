// internal/rooms/store.go
//
// Store is the persistence boundary for room documents. Every mutation is a
// single serialized read-modify-write against one room — the discipline is
// one logical writer transaction per operation, never a long-held lock
// spanning calls. Reads and the snapshots pushed to subscribers are always
// deep copies, so callers can never alias the stored document.
//
// Implementations:
//   - SQLiteStore (store_sqlite.go): JSON documents in a multiplayer_rooms
//     table, used by the server.
//   - MemoryStore (store_memory.go): map-backed, used in tests and when no
//     database is configured.

package rooms

import (
	"context"
	"sync"
)

// Store persists room documents and fans change snapshots out to subscribers.
type Store interface {
	// Create inserts a new room. Returns ErrRoomExists if the code is taken.
	Create(ctx context.Context, r *Room) error

	// Get returns a snapshot of the room, or ErrRoomNotFound.
	Get(ctx context.Context, roomID string) (*Room, error)

	// Update runs mutate against the current document under the room's
	// write serialization, persists the result, and notifies subscribers.
	// If mutate returns an error the document is left untouched and the
	// error is returned verbatim. Returns a snapshot of the stored room.
	Update(ctx context.Context, roomID string, mutate func(*Room) error) (*Room, error)

	// Delete removes the room. Subscribers receive a nil snapshot (room
	// closed) and are then released.
	Delete(ctx context.Context, roomID string) error

	// List returns snapshots of every room in the given status.
	List(ctx context.Context, status Status) ([]*Room, error)

	// Subscribe registers fn to receive a full snapshot after every change
	// to the room (nil when the room is deleted). Delivery is best-effort,
	// runs after the mutation commits and outside the room's update lock
	// (so a slow subscriber never stalls later mutations), and stops when
	// the returned handle is cancelled.
	Subscribe(roomID string, fn func(*Room)) *Subscription
}

// Subscription is a cancellable handle for a room change stream.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel stops delivery and releases the subscription. Idempotent.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// subscriberHub tracks per-room subscriber callbacks. Shared by both Store
// implementations.
type subscriberHub struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string]map[int64]func(*Room)
}

func newSubscriberHub() *subscriberHub {
	return &subscriberHub{subs: make(map[string]map[int64]func(*Room))}
}

func (h *subscriberHub) subscribe(roomID string, fn func(*Room)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	if h.subs[roomID] == nil {
		h.subs[roomID] = make(map[int64]func(*Room))
	}
	h.subs[roomID][id] = fn
	return &Subscription{cancel: func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[roomID], id)
		if len(h.subs[roomID]) == 0 {
			delete(h.subs, roomID)
		}
	}}
}

// notify delivers snap to every subscriber of roomID. The callback list is
// copied first so a subscriber cancelling mid-delivery cannot deadlock.
func (h *subscriberHub) notify(roomID string, snap *Room) {
	h.mu.RLock()
	fns := make([]func(*Room), 0, len(h.subs[roomID]))
	for _, fn := range h.subs[roomID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()
	for _, fn := range fns {
		if snap == nil {
			fn(nil)
			continue
		}
		fn(snap.Clone())
	}
}

// release drops all subscribers of a deleted room.
func (h *subscriberHub) release(roomID string) {
	h.mu.Lock()
	delete(h.subs, roomID)
	h.mu.Unlock()
}

// lockTable hands out one mutex per room so mutations serialize within a
// room while distinct rooms proceed in parallel.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) forRoom(roomID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[roomID] = l
	}
	return l
}

func (t *lockTable) drop(roomID string) {
	t.mu.Lock()
	delete(t.locks, roomID)
	t.mu.Unlock()
}
