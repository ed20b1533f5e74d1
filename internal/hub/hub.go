package hub

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"beattrack/internal/authtoken"
	"beattrack/internal/roommanager"
	"beattrack/internal/roommodel"
	"beattrack/internal/rooms"
	"beattrack/internal/wsproto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub is the multi-reader/multi-writer connection directory described
// in spec.md 4.6: per-client session state lives here, but every
// room-affecting message is routed onto the owning Room's mailbox
// before it touches Room state.
type Hub struct {
	registry *rooms.Registry
	verifier *authtoken.Verifier

	mu      sync.RWMutex
	clients map[string]*Client          // clientID -> Client
	byRoom  map[string]map[string]*Client // roomCode -> playerID -> Client

	stop chan struct{}
}

// New creates a Hub backed by the given room registry. verifier may be
// nil, in which case every connection is a guest with a transient id.
func New(registry *rooms.Registry, verifier *authtoken.Verifier) *Hub {
	h := &Hub{
		registry: registry,
		verifier: verifier,
		clients:  make(map[string]*Client),
		byRoom:   make(map[string]map[string]*Client),
		stop:     make(chan struct{}),
	}
	go h.timeSyncLoop()
	return h
}

// Ready implements healthhttp.Checker.
func (h *Hub) Ready() bool {
	select {
	case <-h.stop:
		return false
	default:
		return true
	}
}

// Stop halts the time_sync ticker.
func (h *Hub) Stop() {
	close(h.stop)
}

// ServeHTTP upgrades the request to a WebSocket and starts the client's
// pumps. Optional auth: a bearer token in the "token" query parameter or
// an "auth_token" cookie is verified and, if valid, attaches AuthUserID.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: upgrade failed: %v", err)
		return
	}

	c := newClient(h, conn, uuid.NewString())
	if h.verifier != nil {
		if token := extractToken(r); token != "" {
			if userID, err := h.verifier.Verify(token, time.Now()); err == nil {
				c.AuthUserID = userID
			}
		}
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	c.Start()
}

func extractToken(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	if c.RoomCode != "" {
		if room, ok := h.byRoom[c.RoomCode]; ok {
			delete(room, c.PlayerID)
			if len(room) == 0 {
				delete(h.byRoom, c.RoomCode)
			}
		}
	}
	roomCode, playerID := c.RoomCode, c.PlayerID
	h.mu.Unlock()
	c.Close()

	if roomCode != "" && playerID != "" {
		if room, err := h.registry.Get(roomCode); err == nil {
			room.Submit(func(rm *roommanager.Room) {
				rm.Disconnect(playerID)
			})
		}
	}
}

func (h *Hub) bindClientToRoom(c *Client, roomCode, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.RoomCode = roomCode
	c.PlayerID = playerID
	if h.byRoom[roomCode] == nil {
		h.byRoom[roomCode] = make(map[string]*Client)
	}
	h.byRoom[roomCode][playerID] = c
}

// ToRoom implements roommanager.Broadcaster.
func (h *Hub) ToRoom(roomCode, event string, payload any) {
	h.mu.RLock()
	room := h.byRoom[roomCode]
	clients := make([]*Client, 0, len(room))
	for _, c := range room {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Send(event, payload)
	}
}

// ToRoomExcept implements roommanager.Broadcaster.
func (h *Hub) ToRoomExcept(roomCode, exceptPlayerID, event string, payload any) {
	h.mu.RLock()
	room := h.byRoom[roomCode]
	clients := make([]*Client, 0, len(room))
	for pid, c := range room {
		if pid == exceptPlayerID {
			continue
		}
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Send(event, payload)
	}
}

// ToPlayer implements roommanager.Broadcaster.
func (h *Hub) ToPlayer(roomCode, playerID, event string, payload any) {
	h.mu.RLock()
	var target *Client
	if room, ok := h.byRoom[roomCode]; ok {
		target = room[playerID]
	}
	h.mu.RUnlock()
	if target != nil {
		target.Send(event, payload)
	}
}

func (h *Hub) timeSyncLoop() {
	ticker := time.NewTicker(roommodel.TimeSyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.broadcastTimeSync()
		case <-h.stop:
			return
		}
	}
}

// broadcastTimeSync pushes time_sync to every connected client, per
// spec.md 4.6 — not just clients currently bound to a room, since a
// client in the lobby still needs the server clock to estimate offset
// ahead of its first round.
func (h *Hub) broadcastTimeSync() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	payload := wsproto.TimeSyncPayload{ServerTime: time.Now().UnixMilli()}
	for _, c := range clients {
		c.Send(wsproto.EventTimeSync, payload)
	}
}
