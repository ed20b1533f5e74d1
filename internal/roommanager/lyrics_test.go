package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func TestBuildLyricsBlanks_SelectsThreeToSixWordsOfMinLength(t *testing.T) {
	track := roommodel.Track{Title: "Around the World", Artist: "Daft Punk"}
	text, blanks := buildLyricsBlanks(track)
	assert.Equal(t, "Around the World by Daft Punk", text)
	assert.GreaterOrEqual(t, len(blanks), roommodel.LyricsMinBlanks)
	assert.LessOrEqual(t, len(blanks), roommodel.LyricsMaxBlanks)
	for _, b := range blanks {
		assert.GreaterOrEqual(t, len(b.Answer), roommodel.LyricsMinWordLength)
	}
}

func TestSubmitLyrics_AllCorrectBlanksAwardFullFractionCredit(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	room, fb := newTestRoom(roommodel.ModeLyrics, p1)
	defer room.Stop()
	room.revealLyrics()
	ls := room.Round.State.(*roommodel.LyricsRoundState)
	require.NotEmpty(t, ls.Blanks)

	answers := make([]string, len(ls.Blanks))
	for i, b := range ls.Blanks {
		answers[i] = b.Answer
	}

	werr := room.SubmitLyrics("p1", answers, 0)
	require.Nil(t, werr)
	assert.True(t, p1.FoundArtist)
	assert.True(t, p1.FoundTitle)
	assert.Greater(t, p1.Score, 0)
	res := fb.last(wsproto.EventLyricsResult).Payload.(wsproto.LyricsResultPayload)
	assert.Greater(t, res.PointsEarned, 0)
}

func TestSubmitLyrics_PartialCreditProportionalToBlanksSolved(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	room, _ := newTestRoom(roommodel.ModeLyrics, p1)
	defer room.Stop()
	room.revealLyrics()
	ls := room.Round.State.(*roommodel.LyricsRoundState)
	require.GreaterOrEqual(t, len(ls.Blanks), 2)

	answers := make([]string, len(ls.Blanks))
	answers[0] = ls.Blanks[0].Answer // only the first blank right

	require.Nil(t, room.SubmitLyrics("p1", answers, 0))
	assert.Greater(t, p1.Score, 0)
}

func TestSubmitLyrics_RejectsASecondSubmission(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeLyrics, p1, p2)
	defer room.Stop()
	room.revealLyrics()

	require.Nil(t, room.SubmitLyrics("p1", []string{}, 0))
	werr := room.SubmitLyrics("p1", []string{}, 100)
	require.NotNil(t, werr)
	assert.Equal(t, wsproto.ErrAlreadyAnswered, werr.Code)
}

func TestSubmitLyrics_EndsRoundOnceEveryActivePlayerSubmitted(t *testing.T) {
	p1 := newTestPlayer("p1", "Alice")
	p2 := newTestPlayer("p2", "Bob")
	room, _ := newTestRoom(roommodel.ModeLyrics, p1, p2)
	defer room.Stop()
	room.revealLyrics()

	require.Nil(t, room.SubmitLyrics("p1", []string{}, 0))
	assert.Equal(t, roommodel.PhasePlaying, room.Phase)

	require.Nil(t, room.SubmitLyrics("p2", []string{}, 0))
	assert.Equal(t, roommodel.PhaseReveal, room.Phase)
}
