// Package rooms is the cross-room registry: room-code generation and
// lookup, grounded on the teacher's rooms.Manager
// (internal/rooms/manager.go), generalized from an HTTP/DB-backed room
// directory to an in-memory map of actor handles, since room state now
// lives inside each roommanager.Room's own single-writer goroutine.
package rooms

import (
	"crypto/rand"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"beattrack/internal/ratelimit"
	"beattrack/internal/roommanager"
	"beattrack/internal/roommodel"
	"beattrack/internal/statssink"
	"beattrack/internal/tracksource"
)

var ErrRoomNotFound = errors.New("rooms: no room for that code")

const (
	maxCodeCollisions = 100
	idleSweepInterval = 5 * time.Minute
	idleRoomTimeout   = 2 * time.Hour
)

// Registry owns every live Room actor, keyed by its room code.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roommanager.Room

	broadcaster roommanager.Broadcaster
	trackSource tracksource.CatalogFactory
	statsSink   statssink.Sink
	limiter     *ratelimit.Limiter

	stop chan struct{}
}

// Config bundles the collaborators every Room actor the registry creates
// will share. TrackSource is a CatalogFactory, not a Source: the
// registry asks it for one fresh, independently-deduped Source per room
// (see CreateRoom), so concurrently running rooms never share session
// dedup state.
type Config struct {
	Broadcaster roommanager.Broadcaster
	TrackSource tracksource.CatalogFactory
	StatsSink   statssink.Sink
	Limiter     *ratelimit.Limiter
}

// New creates a Registry and starts its idle-room sweep.
func New(cfg Config) *Registry {
	reg := &Registry{
		rooms:       make(map[string]*roommanager.Room),
		broadcaster: cfg.Broadcaster,
		trackSource: cfg.TrackSource,
		statsSink:   cfg.StatsSink,
		limiter:     cfg.Limiter,
		stop:        make(chan struct{}),
	}
	go reg.sweepLoop()
	return reg
}

// SetBroadcaster wires the registry's outbound path after construction,
// resolving the Hub<->Registry construction cycle: the Hub needs a live
// Registry to route messages onto, and Rooms need a live Hub to
// broadcast through.
func (reg *Registry) SetBroadcaster(b roommanager.Broadcaster) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.broadcaster = b
}

// Ready implements healthhttp.Checker: the registry is ready as soon as
// it exists, since its sweep goroutine has no externally-observable
// startup phase.
func (reg *Registry) Ready() bool {
	select {
	case <-reg.stop:
		return false
	default:
		return true
	}
}

// Stop halts the idle-room sweep. Does not tear down live rooms.
func (reg *Registry) Stop() {
	close(reg.stop)
}

// CreateRoom allocates a fresh room code, builds the roommodel.Room and
// its owning actor, and registers it.
func (reg *Registry) CreateRoom(host *roommodel.Player, settings roommodel.Settings) (*roommanager.Room, error) {
	code, err := reg.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	var session tracksource.Source
	if reg.trackSource != nil {
		session = reg.trackSource.NewSession()
	}

	model := roommodel.NewRoom(code, host, settings)
	room := roommanager.NewRoom(model, roommanager.Deps{
		Broadcaster: reg.broadcaster,
		TrackSource: session,
		StatsSink:   reg.statsSink,
		Limiter:     reg.limiter,
		OnEmpty:     reg.onRoomEmpty,
	})

	reg.mu.Lock()
	reg.rooms[code] = room
	reg.mu.Unlock()

	log.Printf("rooms: created room %s", code)
	return room, nil
}

// Get looks up a live room by code.
func (reg *Registry) Get(code string) (*roommanager.Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Delete removes a room from the registry, stopping its actor.
func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	room, ok := reg.rooms[code]
	if ok {
		delete(reg.rooms, code)
	}
	reg.mu.Unlock()
	if ok {
		room.Stop()
		log.Printf("rooms: deleted room %s", code)
	}
}

func (reg *Registry) onRoomEmpty(code string) {
	reg.Delete(code)
}

// Count reports how many rooms are currently live.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// generateUniqueCode implements spec.md 6's "Room-code generation uses
// the restricted alphabet; on >100 collisions, append a base-36
// timestamp."
func (reg *Registry) generateUniqueCode() (string, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for attempt := 0; attempt < maxCodeCollisions; attempt++ {
		code, err := randomCode(roommodel.RoomCodeLength)
		if err != nil {
			return "", err
		}
		full := roommodel.RoomCodePrefix + code
		if _, exists := reg.rooms[full]; !exists {
			return full, nil
		}
	}

	code, err := randomCode(roommodel.RoomCodeLength)
	if err != nil {
		return "", err
	}
	return roommodel.RoomCodePrefix + code + "-" + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}

func randomCode(length int) (string, error) {
	alphabet := roommodel.RoomCodeAlphabet
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range raw {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}

func (reg *Registry) sweepLoop() {
	ticker := time.NewTicker(idleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			reg.sweepIdle()
		case <-reg.stop:
			return
		}
	}
}

func (reg *Registry) sweepIdle() {
	cutoff := time.Now().Add(-idleRoomTimeout)
	reg.mu.RLock()
	var stale []string
	for code, room := range reg.rooms {
		room.Mutex.RLock()
		last := room.LastActivityAt
		room.Mutex.RUnlock()
		if last.Before(cutoff) {
			stale = append(stale, code)
		}
	}
	reg.mu.RUnlock()

	for _, code := range stale {
		log.Printf("rooms: sweeping idle room %s", code)
		reg.Delete(code)
	}
}
