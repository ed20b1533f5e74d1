package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestBuzzerPress_FirstPressWinsTheLock(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, fb := newTestRoom(roommodel.ModeBuzzer, p1, p2)
	defer room.Stop()

	require.Nil(t, room.BuzzerPress("p1"))
	bs := room.Round.State.(*roommodel.BuzzerRoundState)
	assert.Equal(t, "p1", bs.LockHolder)
	assert.True(t, p1.HasBuzzed)
	assert.NotNil(t, fb.last(wsproto.EventBuzzerLocked))

	// A second press while the lock is held is silently ignored.
	require.Nil(t, room.BuzzerPress("p2"))
	assert.Equal(t, "p1", bs.LockHolder)
	assert.False(t, p2.HasBuzzed)
}

func TestBuzzerPress_RejectedOutsideBuzzerMode(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	room, _ := newTestRoom(roommodel.ModeBlindTest, p1)
	defer room.Stop()

	werr := room.BuzzerPress("p1")
	require.NotNil(t, werr)
}

func TestReleaseBuzzerLock_EndsRoundOnceEveryoneHasBuzzed(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, fb := newTestRoom(roommodel.ModeBuzzer, p1, p2)
	defer room.Stop()

	require.Nil(t, room.BuzzerPress("p1"))
	room.releaseBuzzerLock(true)
	assert.Equal(t, roommodel.PhasePlaying, room.Phase, "one buzz is not everyone")

	require.Nil(t, room.BuzzerPress("p2"))
	room.releaseBuzzerLock(true)

	assert.Equal(t, roommodel.PhaseReveal, room.Phase)
	assert.NotNil(t, fb.last(wsproto.EventBuzzerTimeout))
}
