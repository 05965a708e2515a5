// internal/hub/client.go
//
// Client wraps one websocket connection for hub delivery. Writes are
// serialized by a mutex (gorilla allows one concurrent writer), carry a
// deadline so a stalled peer errors out, and a closed client fails fast
// instead of blocking a broadcast.

package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var errClientClosed = errors.New("client closed")

// writeWait bounds a single message write. A peer that stops reading makes
// Send error out instead of blocking fan-out to the rest of the room.
const writeWait = 10 * time.Second

// Client is a Sender over a gorilla websocket connection.
type Client struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// NewClient wraps conn with a fresh connection id.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{id: uuid.NewString(), conn: conn}
}

// ID returns the connection identifier shared in player-joined events.
func (c *Client) ID() string { return c.id }

// Send writes ev as a JSON message. Fails once the client is closed.
func (c *Client) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClientClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(ev); err != nil {
		c.closed = true
		return err
	}
	return nil
}

// Close marks the client closed and closes the underlying socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	_ = c.conn.Close()
}
