// Package roommanager implements the per-room game-phase state machine
// across the six modes, grounded on the teacher's websocket.Hub.run()
// select-loop pattern (internal/websocket/hub.go) generalized from a
// hub-wide loop to a per-room single-writer actor, per spec.md 5's
// concurrency model.
package roommanager

import (
	"context"
	"log"
	"time"

	"beattrack/internal/ratelimit"
	"beattrack/internal/roommodel"
	"beattrack/internal/statssink"
	"beattrack/internal/tracksource"
)

// timerToken is a cancellation-capable handle for one scheduled action.
// Cancelling is always safe and idempotent, per spec.md 9.
type timerToken struct {
	cancelled bool
}

func (t *timerToken) cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Room is the actor owning one roommodel.Room: a dedicated goroutine
// draining an ordered mailbox, so every mutation of state, timers, and
// outbound broadcast for this room is serialized.
type Room struct {
	*roommodel.Room

	mailbox chan func(*Room)
	done    chan struct{}

	broadcaster Broadcaster
	trackSource tracksource.Source
	fallback    tracksource.Source
	statsSink   statssink.Sink
	limiter     *ratelimit.Limiter

	timers map[string]*timerToken

	// onEmpty is invoked (off the mailbox goroutine) as soon as the last
	// player is removed from the room, so the registry can drop it.
	onEmpty func(code string)
}

// Deps bundles the Room actor's collaborators, supplied by the registry
// at creation time.
type Deps struct {
	Broadcaster Broadcaster
	TrackSource tracksource.Source
	StatsSink   statssink.Sink
	Limiter     *ratelimit.Limiter
	OnEmpty     func(code string)
}

const mailboxBuffer = 64

// NewRoom wraps a freshly-created roommodel.Room in an actor and starts
// its mailbox loop.
func NewRoom(model *roommodel.Room, deps Deps) *Room {
	r := &Room{
		Room:        model,
		mailbox:     make(chan func(*Room), mailboxBuffer),
		done:        make(chan struct{}),
		broadcaster: deps.Broadcaster,
		trackSource: deps.TrackSource,
		fallback:    newFallbackSource(),
		statsSink:   deps.StatsSink,
		limiter:     deps.Limiter,
		timers:      make(map[string]*timerToken),
		onEmpty:     deps.OnEmpty,
	}
	go r.loop()
	return r
}

// Submit enqueues a command for serialized execution on the room's
// mailbox goroutine. Safe to call from any goroutine (the hub, a
// timer callback).
func (r *Room) Submit(cmd func(*Room)) {
	select {
	case r.mailbox <- cmd:
	case <-r.done:
	}
}

// Stop halts the room's mailbox loop. Idempotent.
func (r *Room) Stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

func (r *Room) loop() {
	for {
		select {
		case cmd := <-r.mailbox:
			r.runSafely(cmd)
		case <-r.done:
			return
		}
	}
}

// runSafely implements spec.md 7's "unexpected exceptions during a
// handler are caught, logged with the event name" rule: a panicking
// command must not take down the room's goroutine or leave other rooms
// affected.
func (r *Room) runSafely(cmd func(*Room)) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("roommanager: room %s: recovered panic: %v", r.Code, rec)
		}
	}()
	cmd(r)
	r.Mutex.Lock()
	r.LastActivityAt = time.Now()
	r.Mutex.Unlock()
}

// nowMs is the room's single source of wall-clock truth, isolated so
// tests can stub scheduling by constructing Rounds directly instead of
// depending on real time.
func nowMs() int64 {
	return time.Now().UnixMilli()
}

// scheduleAfter arranges for fn to run on this room's mailbox after d,
// unless cancelled first. The returned token is stored under name so a
// later cancelTimer(name) can suppress it; scheduling a new timer under
// the same name implicitly cancels the previous one.
func (r *Room) scheduleAfter(d time.Duration, name string, fn func(*Room)) {
	r.cancelTimer(name)
	tok := &timerToken{}
	r.timers[name] = tok
	time.AfterFunc(d, func() {
		r.Submit(func(rm *Room) {
			if tok.cancelled {
				return
			}
			fn(rm)
		})
	})
}

// cancelTimer marks any timer registered under name as cancelled. Safe
// to call when no such timer exists.
func (r *Room) cancelTimer(name string) {
	if tok, ok := r.timers[name]; ok {
		tok.cancel()
		delete(r.timers, name)
	}
}

// cancelAllTimers cancels every pending timer, used on room teardown
// and on full game reset.
func (r *Room) cancelAllTimers() {
	for name, tok := range r.timers {
		tok.cancel()
		delete(r.timers, name)
	}
}

// fetchTrack resolves the next track off the room's mailbox goroutine:
// the HTTP round-trip itself happens in a spawned goroutine (per
// spec.md 5 "MUST NOT block other rooms"), and the result is
// re-submitted as a command so it commits back under single-writer
// discipline.
func (r *Room) fetchTrack(onResult func(rm *Room, track roommodel.Track)) {
	genre := r.Settings.Genre
	source := r.trackSource
	fallback := r.fallback
	code := r.Code
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var track *roommodel.Track
		var err error
		if source != nil {
			track, err = source.GetRandomTrack(ctx, genre)
		}
		if err != nil {
			log.Printf("roommanager: room %s: track source error: %v", code, err)
		}
		if track == nil {
			track = fallbackMockTrack(fallback, genre)
		}

		r.Submit(func(rm *Room) {
			onResult(rm, *track)
		})
	}()
}
