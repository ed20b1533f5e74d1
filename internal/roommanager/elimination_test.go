package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestApplyEliminationLives_OnlyWorstFinisherLosesLifeWhenAllSucceed(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeElimination, p1, p2)
	defer room.Stop()

	require.Nil(t, room.SubmitAnswer("p1", "daft punk around the world", 0))
	require.Nil(t, room.SubmitAnswer("p2", "daft punk around the world", 5000))

	// Both players fully found, so checkEarlyTermination already ended
	// the round and applied lives; no manual call needed here.

	assert.Equal(t, 3, p1.Lives, "first finisher keeps all lives")
	assert.Equal(t, 2, p2.Lives, "last-ranked finisher among succeeders loses one")
}

func TestApplyEliminationLives_EveryoneWhoMissedLosesALife(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeElimination, p1, p2)
	defer room.Stop()

	require.Nil(t, room.SubmitAnswer("p1", "daft punk around the world", 0))
	// p2 never answers this round.

	room.applyEliminationLives()

	assert.Equal(t, 3, p1.Lives)
	assert.Equal(t, 2, p2.Lives)
}

func TestApplyEliminationLives_NoOneLosesALifeWhenAllMiss(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeElimination, p1, p2)
	defer room.Stop()

	room.applyEliminationLives()

	assert.Equal(t, 3, p1.Lives)
	assert.Equal(t, 3, p2.Lives)
}

func TestApplyEliminationLives_LifeReachingZeroEliminates(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p1.Lives = 1
	p2 := newTestPlayer("p2", "Bob")
	room, fb := newTestRoom(roommodel.ModeElimination, p1, p2)
	defer room.Stop()

	require.Nil(t, room.SubmitAnswer("p2", "daft punk around the world", 0))
	room.applyEliminationLives()

	assert.Equal(t, 0, p1.Lives)
	assert.True(t, p1.Eliminated)
	assert.NotNil(t, fb.last(wsproto.EventPlayerEliminated))
}
