// Package hub implements the Connection Hub of spec.md 4.6: the
// transport-facing layer that terminates one WebSocket per client,
// authenticates it, and routes every room-affecting message onto the
// owning Room's serialization domain. Grounded on the teacher's
// internal/websocket package (hub.go, client.go), generalized from a
// single flat WSMessage envelope and int64 UserID to wsproto.Envelope
// and string session ids.
package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"beattrack/internal/wsproto"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 256
)

// Client is one terminated WebSocket connection. Session state
// (RoomCode, PlayerID, Pseudo, AuthUserID) is set once join_room /
// create_room resolves and is otherwise only read, never raced: the
// owning Room's mailbox is the only place it is used to mutate Room
// state.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	ID         string
	RoomCode   string
	PlayerID   string
	AuthUserID string

	hub *Hub

	mu     sync.Mutex
	closed bool
}

func newClient(h *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		ID:   id,
		hub:  h,
	}
}

// Start launches the read and write pumps. Call once per connection.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("hub: client %s: read error: %v", c.ID, err)
			}
			return
		}

		var env wsproto.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.SendError(wsproto.NewError(wsproto.ErrServerError, "malformed message"))
			continue
		}
		c.hub.dispatch(c, &env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send enqueues an event for this client, preserving per-connection
// order; a full buffer drops the oldest delivery guarantee rather than
// blocking the room (spec.md 5's "a slow client must not stall the
// Room").
func (c *Client) Send(event string, payload any) {
	env, err := wsproto.Encode(event, payload)
	if err != nil {
		log.Printf("hub: client %s: encode %s failed: %v", c.ID, event, err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("hub: client %s: send buffer full, dropping %s", c.ID, event)
	}
}

// SendError sends a wsproto.Error as the error event.
func (c *Client) SendError(e *wsproto.Error) {
	c.Send(wsproto.EventError, e.Payload())
}

// Close marks the client closed and stops its write pump.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
