// Package ratelimit implements the per-(client,event) sliding window and
// per-(client,room,round) answer attempt counter described in
// spec.md 4.3.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MaxAnswerAttemptsPerRound bounds the per-round attempt counter.
	MaxAnswerAttemptsPerRound = 50

	sweepInterval = 60 * time.Second
)

// EventWindow configures a sliding window for one event name.
type EventWindow struct {
	MaxRequests int
	WindowMs    int64
}

var (
	// ChatWindow: 3 messages per second.
	ChatWindow = EventWindow{MaxRequests: 3, WindowMs: 1000}
	// EmoteWindow: 5 emotes per 10 seconds.
	EmoteWindow = EventWindow{MaxRequests: 5, WindowMs: 10000}
)

type windowState struct {
	count       int
	windowStart int64
}

type roundKey struct {
	clientID  string
	roomCode  string
	round     int
}

type eventKey struct {
	clientID string
	event    string
}

// Limiter tracks both rate-limiting tables described in spec.md 4.3. The
// zero value is not usable; construct with New.
type Limiter struct {
	mu       sync.Mutex
	windows  map[eventKey]*windowState
	attempts map[roundKey]int

	// burst backs the chat/emote fast path with a token-bucket limiter per
	// client, sized to match the documented window/burst.
	burst map[eventKey]*rate.Limiter

	stop chan struct{}
}

// New creates a Limiter and starts its 60s background sweep goroutine.
// Callers must call Stop when done to release the goroutine.
func New() *Limiter {
	l := &Limiter{
		windows:  make(map[eventKey]*windowState),
		attempts: make(map[roundKey]int),
		burst:    make(map[eventKey]*rate.Limiter),
		stop:     make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Stop halts the background sweep.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UnixMilli()
	// Windows are small and self-expiring via the reset-on-stale-window
	// rule in Check; the periodic sweep here exists to bound memory from
	// clients that connect once and never return.
	cutoff := now - 10*sweepInterval.Milliseconds()
	for k, w := range l.windows {
		if w.windowStart < cutoff {
			delete(l.windows, k)
		}
	}
}

// Check implements the sliding window rule: if there is no entry for
// (clientID, event), or the window's first request is older than
// windowMs, reset the count to 1 and report not limited; otherwise
// increment and report limited iff the count now exceeds maxRequests.
func (l *Limiter) Check(clientID, event string, w EventWindow, nowMs int64) (limited bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := eventKey{clientID: clientID, event: event}
	state, ok := l.windows[k]
	if !ok || nowMs-state.windowStart > w.WindowMs {
		l.windows[k] = &windowState{count: 1, windowStart: nowMs}
		return false
	}

	state.count++
	return state.count > w.MaxRequests
}

// CheckChat applies the 3/s chat sliding window, backed by a token
// bucket limiter for the fast path.
func (l *Limiter) CheckChat(clientID string, nowMs int64) bool {
	return l.checkBurstBacked(clientID, "chat", ChatWindow, nowMs)
}

// CheckEmote applies the 5/10s emote sliding window.
func (l *Limiter) CheckEmote(clientID string, nowMs int64) bool {
	return l.checkBurstBacked(clientID, "emote", EmoteWindow, nowMs)
}

func (l *Limiter) checkBurstBacked(clientID, event string, w EventWindow, nowMs int64) bool {
	l.mu.Lock()
	k := eventKey{clientID: clientID, event: event}
	rl, ok := l.burst[k]
	if !ok {
		every := time.Duration(w.WindowMs) * time.Millisecond / time.Duration(w.MaxRequests)
		rl = rate.NewLimiter(rate.Every(every), w.MaxRequests)
		l.burst[k] = rl
	}
	l.mu.Unlock()

	if !rl.Allow() {
		return true
	}
	return l.Check(clientID, event, w, nowMs)
}

// CheckAnswerAttempt increments the per-(client,room,round) attempt
// counter and reports whether it has exceeded MaxAnswerAttemptsPerRound.
func (l *Limiter) CheckAnswerAttempt(clientID, roomCode string, round int) (limited bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := roundKey{clientID: clientID, roomCode: roomCode, round: round}
	l.attempts[k]++
	return l.attempts[k] > MaxAnswerAttemptsPerRound
}

// ResetRound drops the attempt counters for a finished round. Attempt
// counters are removed only here; the periodic sweep clears rate-limit
// windows and leaves attempt counters alone.
func (l *Limiter) ResetRound(roomCode string, round int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.attempts {
		if k.roomCode == roomCode && k.round == round {
			delete(l.attempts, k)
		}
	}
}
