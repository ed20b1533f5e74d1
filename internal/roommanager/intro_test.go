package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestIntroTierMultiplier_DecreasesAsTiersAdvance(t *testing.T) {
	prev := introTierMultiplier(0)
	for tier := 1; tier < len(roommodel.IntroTierMultipliers); tier++ {
		cur := introTierMultiplier(tier)
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestIntroTierMultiplier_OutOfRangeDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, introTierMultiplier(-1))
	assert.Equal(t, 1.0, introTierMultiplier(len(roommodel.IntroTierMultipliers)+5))
}

func TestSubmitAnswer_RejectedDuringListeningPhase(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	room, _ := newTestRoom(roommodel.ModeIntro, p1)
	defer room.Stop()
	room.scheduleIntroTier(0)

	werr := room.SubmitAnswer("p1", "daft punk around the world", 0)
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrRoundExpired, werr.Code)
}

func TestSubmitAnswer_AcceptedDuringGuessingPhaseWithTierMultiplier(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	room, _ := newTestRoom(roommodel.ModeIntro, p1)
	defer room.Stop()
	room.scheduleIntroTier(0)
	room.beginIntroGuessWindow(0)

	werr := room.SubmitAnswer("p1", "daft punk around the world", 0)
	require.Nil(t, werr)
	assert.True(t, p1.FullyFound())
	assert.Greater(t, p1.Score, 0)

	// An identical answer at the last, lowest-multiplier tier earns
	// strictly fewer points than the same answer at tier 0.
	p2 := newTestPlayer("p1", "Alice")
	room2, _ := newTestRoom(roommodel.ModeIntro, p2)
	defer room2.Stop()
	lastTier := len(roommodel.IntroTierMultipliers) - 1
	room2.scheduleIntroTier(lastTier)
	room2.beginIntroGuessWindow(lastTier)
	require.Nil(t, room2.SubmitAnswer("p1", "daft punk around the world", 0))
	assert.Less(t, p2.Score, p1.Score)
}
