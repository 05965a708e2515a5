// internal/rooms/store_memory.go
//
// In-memory Store implementation. Same contract as SQLiteStore, backed by a
// map. Used in tests and when the server runs without a database path.

package rooms

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	locks *lockTable
	subs  *subscriberHub
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*Room),
		locks: newLockTable(),
		subs:  newSubscriberHub(),
	}
}

func (s *MemoryStore) Create(ctx context.Context, r *Room) error {
	s.mu.Lock()
	if _, exists := s.rooms[r.RoomID]; exists {
		s.mu.Unlock()
		return ErrRoomExists
	}
	s.rooms[r.RoomID] = r.Clone()
	s.mu.Unlock()
	s.subs.notify(r.RoomID, r)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, roomID string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, roomID string, mutate func(*Room) error) (*Room, error) {
	next, err := s.applyUpdate(ctx, roomID, mutate)
	if err != nil {
		return nil, err
	}
	// Notify after the room lock is released: a slow subscriber must never
	// stall the next mutation of the room.
	s.subs.notify(roomID, next)
	return next.Clone(), nil
}

// applyUpdate runs the read-modify-write under the room's lock and returns
// the committed document.
func (s *MemoryStore) applyUpdate(ctx context.Context, roomID string, mutate func(*Room) error) (*Room, error) {
	l := s.locks.forRoom(roomID)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	cur, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}

	next := cur.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.rooms[roomID] = next
	s.mu.Unlock()
	return next, nil
}

func (s *MemoryStore) Delete(ctx context.Context, roomID string) error {
	s.mu.Lock()
	if _, ok := s.rooms[roomID]; !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	delete(s.rooms, roomID)
	s.mu.Unlock()
	s.subs.notify(roomID, nil)
	s.subs.release(roomID)
	s.locks.drop(roomID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, status Status) ([]*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Room
	for _, r := range s.rooms {
		if r.Status == status {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Subscribe(roomID string, fn func(*Room)) *Subscription {
	return s.subs.subscribe(roomID, fn)
}
