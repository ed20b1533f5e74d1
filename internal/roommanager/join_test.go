package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestJoinRoom_RejectsInvalidPseudo(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	room.Phase = roommodel.PhaseWaiting
	defer room.Stop()

	res, werr := room.JoinRoom(JoinParams{NewPlayerID: "p2", Pseudo: "x"})
	require.Nil(t, res)
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrInvalidPseudo, werr.Code)
}

func TestJoinRoom_NewSeatAddsPlayerWithLivesFromSettings(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, fb := newTestRoom(roommodel.ModeElimination, host)
	room.Phase = roommodel.PhaseWaiting
	defer room.Stop()

	res, werr := room.JoinRoom(JoinParams{NewPlayerID: "p2", Pseudo: "Bob"})
	require.Nil(t, werr)
	require.NotNil(t, res)
	assert.False(t, res.Rebound)
	assert.Equal(t, room.Settings.EliminationLives, res.Player.Lives)
	assert.NotNil(t, fb.last(wsproto.EventPlayerJoined))
}

func TestJoinRoom_RejectsWhenRoomIsFull(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	room.Phase = roommodel.PhaseWaiting
	room.Settings.MaxPlayers = 1
	defer room.Stop()

	_, werr := room.JoinRoom(JoinParams{NewPlayerID: "p2", Pseudo: "Bob"})
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrRoomFull, werr.Code)
}

func TestJoinRoom_RejectsMidGameJoinForNonSpectator(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	defer room.Stop() // PhasePlaying, set by newTestRoom

	_, werr := room.JoinRoom(JoinParams{NewPlayerID: "p2", Pseudo: "Bob"})
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrGameAlreadyStarted, werr.Code)
}

func TestJoinRoom_ReboundRebindsInactiveSeatByPseudo(t *testing.T) {
	host := newTestPlayer("host", "Host")
	bob := newTestPlayer("old-bob", "Bob")
	bob.Active = false
	room, _ := newTestRoom(roommodel.ModeBlindTest, host, bob)
	defer room.Stop()

	res, werr := room.JoinRoom(JoinParams{NewPlayerID: "new-bob", Pseudo: "bob"})
	require.Nil(t, werr)
	require.NotNil(t, res)
	assert.True(t, res.Rebound)
	assert.Equal(t, "old-bob", res.OldPlayerID)
	assert.Equal(t, "new-bob", bob.ID)
	assert.True(t, bob.Active)
}

func TestUpdateSettings_HostOnlyAndWaitingOnly(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	room.Phase = roommodel.PhaseWaiting
	defer room.Stop()

	werr := room.UpdateSettings("not-host", roommodel.Settings{}, map[string]bool{})
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrNotHost, werr.Code)

	patch := roommodel.Settings{RoundDurationMs: 60000}
	require.Nil(t, room.UpdateSettings("host", patch, map[string]bool{"roundDurationMs": true}))
	assert.Equal(t, 60000, room.Settings.RoundDurationMs)
}

func TestUpdateSettings_TimelineModeOverridesTotalRounds(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	room.Phase = roommodel.PhaseWaiting
	defer room.Stop()

	patch := roommodel.Settings{GameMode: roommodel.ModeTimeline}
	require.Nil(t, room.UpdateSettings("host", patch, map[string]bool{"gameMode": true}))
	assert.Equal(t, roommodel.TimelineOverrideRounds, room.TotalRounds)
}
