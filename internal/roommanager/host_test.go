package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestLeaveRoom_RemovesPlayerAndMigratesHost(t *testing.T) {
	host := newTestPlayer("host", "Host")
	p2 := newTestPlayer("p2", "Bob")
	room, fb := newTestRoom(roommodel.ModeBlindTest, host, p2)
	defer room.Stop()

	room.LeaveRoom("host")
	assert.Nil(t, room.FindPlayer("host"))
	assert.Equal(t, "p2", room.HostClientID)
	sent := fb.last(wsproto.EventPlayerLeft).Payload.(wsproto.PlayerLeftPayload)
	assert.Equal(t, "p2", sent.NewHostID)
}

func TestKickPlayer_HostOnlyAndCancelsGrace(t *testing.T) {
	host := newTestPlayer("host", "Host")
	p2 := newTestPlayer("p2", "Bob")
	room, fb := newTestRoom(roommodel.ModeBlindTest, host, p2)
	defer room.Stop()

	werr := room.KickPlayer("p2", "host")
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrNotHost, werr.Code)

	room.Disconnect("p2")
	_, hasGrace := room.timers[graceTimerName("p2")]
	require.True(t, hasGrace)

	require.Nil(t, room.KickPlayer("host", "p2"))
	assert.Nil(t, room.FindPlayer("p2"))
	_, stillHasGrace := room.timers[graceTimerName("p2")]
	assert.False(t, stillHasGrace)
	assert.NotNil(t, fb.last(wsproto.EventPlayerKicked))
}

func TestKickPlayer_HostCannotKickItself(t *testing.T) {
	host := newTestPlayer("host", "Host")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host, p2)
	defer room.Stop()

	werr := room.KickPlayer("host", "host")
	require.NotNil(t, werr)
}

func TestDisconnect_MarksInactiveAndArmsGraceTimer(t *testing.T) {
	host := newTestPlayer("host", "Host")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host, p2)
	defer room.Stop()

	room.Disconnect("p2")
	assert.False(t, p2.Active)
	require.NotNil(t, p2.DisconnectedAt)
	_, hasGrace := room.timers[graceTimerName("p2")]
	assert.True(t, hasGrace)
}

func TestExpireGrace_RemovesPlayerAfterWindowElapses(t *testing.T) {
	host := newTestPlayer("host", "Host")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host, p2)
	defer room.Stop()

	room.Disconnect("p2")
	room.expireGrace("p2")
	assert.Nil(t, room.FindPlayer("p2"))
}

func TestAfterRosterChange_TearsDownEmptyRoom(t *testing.T) {
	host := newTestPlayer("host", "Host")
	room, _ := newTestRoom(roommodel.ModeBlindTest, host)
	defer room.Stop()

	room.LeaveRoom("host")
	// The room is empty; Stop was called synchronously inside
	// afterRosterChange, so Submit must now be a no-op.
	select {
	case <-room.done:
	default:
		t.Fatal("expected room to be stopped once empty")
	}
}
