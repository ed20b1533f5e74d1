package roommanager

import (
	"context"
	"sync"

	"beattrack/internal/ratelimit"
	"beattrack/internal/roommodel"
	"beattrack/internal/tracksource"
)

func newTestLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// fakeBroadcaster records every outbound send instead of touching a real
// connection, so tests can assert on what a Room decided to say without
// standing up a Hub.
type fakeBroadcaster struct {
	mu    sync.Mutex
	sends []fakeSend
}

type fakeSend struct {
	Kind    string // "room", "except", "player"
	Room    string
	Target  string // exceptPlayerID or playerID, empty for "room"
	Event   string
	Payload any
}

func (f *fakeBroadcaster) ToRoom(roomCode, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, fakeSend{Kind: "room", Room: roomCode, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) ToRoomExcept(roomCode, exceptPlayerID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, fakeSend{Kind: "except", Room: roomCode, Target: exceptPlayerID, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) ToPlayer(roomCode, playerID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, fakeSend{Kind: "player", Room: roomCode, Target: playerID, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) last(event string) *fakeSend {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sends) - 1; i >= 0; i-- {
		if f.sends[i].Event == event {
			return &f.sends[i]
		}
	}
	return nil
}

func (f *fakeBroadcaster) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sends {
		if s.Event == event {
			n++
		}
	}
	return n
}

// stubSource always returns the same track, so scoring/matching tests
// don't depend on the mock catalog's random selection.
type stubSource struct {
	track *roommodel.Track
}

func (s stubSource) GetRandomTrack(ctx context.Context, genre string) (*roommodel.Track, error) {
	t := *s.track
	return &t, nil
}

func (s stubSource) ResetSessionState() {}

var _ tracksource.Source = stubSource{}

func newTestPlayer(id, name string) *roommodel.Player {
	return &roommodel.Player{ID: id, Name: name, Active: true, Lives: 3}
}

// newTestRoom builds a Room with a given mode already in PhasePlaying,
// with one in-progress round for track {Title: "Around the World",
// Artist: "Daft Punk"}, so mode-specific submit paths can be exercised
// directly without going through StartGame's countdown/fetch timers.
func newTestRoom(mode roommodel.GameMode, players ...*roommodel.Player) (*Room, *fakeBroadcaster) {
	settings := roommodel.DefaultSettings()
	settings.GameMode = mode
	settings.Clamp()

	model := roommodel.NewRoom("BT-TEST", players[0], settings)
	model.Players = players
	model.Phase = roommodel.PhasePlaying
	model.CurrentRound = 1

	track := roommodel.Track{ID: "t1", Title: "Around the World", Artist: "Daft Punk", ReleaseYear: 1997}
	round := roommodel.NewRound(1, mode)
	round.Track = track
	round.StartMs = 0
	round.EndMs = int64(settings.RoundDurationMs)
	model.Round = round

	fb := &fakeBroadcaster{}
	room := NewRoom(model, Deps{
		Broadcaster: fb,
		TrackSource: stubSource{track: &track},
		StatsSink:   nil,
		Limiter:     newTestLimiter(),
		OnEmpty:     func(string) {},
	})
	return room, fb
}
