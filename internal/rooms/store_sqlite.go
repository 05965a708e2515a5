// internal/rooms/store_sqlite.go
//
// SQLite-backed Store. Rooms are stored as JSON documents keyed by code in
// the multiplayer_rooms table, with status mirrored into its own column so
// the sweeper can list playing/completed rooms without decoding every doc.
//
// The per-room lock serializes the read-modify-write in Update; the store
// assumes a single server process owns the database file.

package rooms

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const roomsSchema = `
CREATE TABLE IF NOT EXISTS multiplayer_rooms (
    room_id    TEXT PRIMARY KEY,
    status     TEXT NOT NULL,
    doc        TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rooms_status ON multiplayer_rooms(status);`

// SQLiteStore implements Store on a *sql.DB.
type SQLiteStore struct {
	db    *sql.DB
	locks *lockTable
	subs  *subscriberHub
}

// NewSQLiteStore prepares the schema and returns a ready store.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(roomsSchema); err != nil {
		return nil, fmt.Errorf("rooms schema: %w", err)
	}
	return &SQLiteStore{db: db, locks: newLockTable(), subs: newSubscriberHub()}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, r *Room) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO multiplayer_rooms (room_id, status, doc, updated_at) VALUES (?,?,?,?)`,
		r.RoomID, string(r.Status), string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomExists
	}
	s.subs.notify(r.RoomID, r)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, roomID string) (*Room, error) {
	return s.load(ctx, roomID)
}

func (s *SQLiteStore) Update(ctx context.Context, roomID string, mutate func(*Room) error) (*Room, error) {
	r, err := s.applyUpdate(ctx, roomID, mutate)
	if err != nil {
		return nil, err
	}
	// Notify after the room lock is released: a slow subscriber must never
	// stall the next mutation of the room.
	s.subs.notify(roomID, r)
	return r.Clone(), nil
}

// applyUpdate runs the read-modify-write under the room's lock and returns
// the committed document.
func (s *SQLiteStore) applyUpdate(ctx context.Context, roomID string, mutate func(*Room) error) (*Room, error) {
	l := s.locks.forRoom(roomID)
	l.Lock()
	defer l.Unlock()

	r, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := mutate(r); err != nil {
		return nil, err
	}
	doc, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE multiplayer_rooms SET status=?, doc=?, updated_at=? WHERE room_id=?`,
		string(r.Status), string(doc), time.Now().UTC().Format(time.RFC3339), roomID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, roomID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM multiplayer_rooms WHERE room_id=?`, roomID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	s.subs.notify(roomID, nil)
	s.subs.release(roomID)
	s.locks.drop(roomID)
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, status Status) ([]*Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM multiplayer_rooms WHERE status=?`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Room
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r Room
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Subscribe(roomID string, fn func(*Room)) *Subscription {
	return s.subs.subscribe(roomID, fn)
}

func (s *SQLiteStore) load(ctx context.Context, roomID string) (*Room, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM multiplayer_rooms WHERE room_id=?`, roomID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	var r Room
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomID, err)
	}
	return &r, nil
}
