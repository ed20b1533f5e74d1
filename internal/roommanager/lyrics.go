package roommanager

import (
	"strings"
	"unicode"

	"beattrack/internal/roommodel"
	"beattrack/internal/scoring"
	"beattrack/internal/wsproto"
)

const timerLyricsReveal = "lyrics-reveal"

// scheduleLyricsReveal arms the ten-second post-round-start delay before
// the blanked lyrics are sent, per spec.md 4.5's "Lyrics mode".
func (r *Room) scheduleLyricsReveal() {
	r.scheduleAfter(roommodel.LyricsRevealDelay, timerLyricsReveal, func(rm *Room) {
		rm.revealLyrics()
	})
}

func (r *Room) revealLyrics() {
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return
	}
	ls, ok := r.Round.State.(*roommodel.LyricsRoundState)
	if !ok || ls.Revealed {
		return
	}

	text, blanks := buildLyricsBlanks(r.Round.Track)
	ls.LyricsText = text
	ls.Blanks = blanks
	ls.Revealed = true

	r.broadcaster.ToRoom(r.Code, wsproto.EventLyricsData, wsproto.LyricsDataPayload{
		LyricsText: text,
		Blanks:     blanks,
	})
}

// buildLyricsBlanks derives a fixed placeholder lyric line from the
// track's title and artist and blanks out its first three words of
// length >= 3 (all of them when fewer qualify), since no lyrics provider
// is wired; the word positions are what clients actually grade against.
func buildLyricsBlanks(track roommodel.Track) (string, []roommodel.LyricsBlank) {
	text := track.Title + " by " + track.Artist
	words := strings.Fields(text)

	var candidates []int
	for i, w := range words {
		if len(cleanWord(w)) >= roommodel.LyricsMinWordLength {
			candidates = append(candidates, i)
		}
	}

	count := roommodel.LyricsMaxBlanks
	if count > len(candidates) {
		count = len(candidates)
	}
	if count > roommodel.LyricsMinBlanks && len(candidates) > roommodel.LyricsMinBlanks {
		count = roommodel.LyricsMinBlanks
	}
	if count < roommodel.LyricsMinBlanks {
		count = len(candidates)
	}

	blanks := make([]roommodel.LyricsBlank, 0, count)
	for i := 0; i < count; i++ {
		pos := candidates[i]
		blanks = append(blanks, roommodel.LyricsBlank{
			Position: pos,
			Answer:   strings.ToLower(cleanWord(words[pos])),
		})
	}
	return text, blanks
}

func cleanWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// SubmitLyrics implements the lyrics-mode submission path, per spec.md
// 4.5: one submission per player per round, per-blank exact match,
// partial credit proportional to the fraction of blanks solved.
func (r *Room) SubmitLyrics(playerID string, answers []string, claimedTimestamp int64) *wsproto.Error {
	if r.Settings.GameMode != roommodel.ModeLyrics {
		return wsproto.NewError(wsproto.ErrServerError, "not a lyrics-mode room")
	}
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return wsproto.NewError(wsproto.ErrRoundExpired, "no active round")
	}
	p := r.FindPlayer(playerID)
	if p == nil || p.IsSpectator {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	ls, ok := r.Round.State.(*roommodel.LyricsRoundState)
	if !ok {
		return wsproto.NewError(wsproto.ErrServerError, "round state mismatch")
	}
	if ls.Submitted[playerID] {
		return wsproto.NewError(wsproto.ErrAlreadyAnswered, "already answered this round")
	}
	ls.Submitted[playerID] = true

	now := nowMs()
	effectiveTs := clampClaimedTimestamp(claimedTimestamp, now)

	correct := make(map[int]bool, len(ls.Blanks))
	correctCount := 0
	for i, blank := range ls.Blanks {
		guess := ""
		if i < len(answers) {
			guess = strings.ToLower(strings.TrimSpace(answers[i]))
		}
		ok := guess == blank.Answer
		correct[blank.Position] = ok
		if ok {
			correctCount++
		}
	}

	elapsedMs := int(effectiveTs - r.Round.StartMs)
	breakdown := scoring.Calculate(elapsedMs, r.Settings.RoundDurationMs, p.Streak, r.Round.Rank())
	fraction := 0.0
	if len(ls.Blanks) > 0 {
		fraction = float64(correctCount) / float64(len(ls.Blanks))
	}
	difficultyMult := roommodel.DifficultyMultiplier[r.Settings.Difficulty]
	points := int(float64(breakdown.Total) * fraction * difficultyMult)

	if correctCount > 0 {
		p.FoundArtist = true
		p.FoundTitle = true
		if r.Round.PlayerRoundPoints == nil {
			r.Round.PlayerRoundPoints = map[string]int{}
		}
		r.Round.PlayerRoundPoints[playerID] += points
		p.Score += points
		p.Streak++
		r.Round.MarkFound(playerID)
	}

	r.Round.Attempts = append(r.Round.Attempts, roommodel.Attempt{
		PlayerID:    playerID,
		Correct:     correctCount == len(ls.Blanks) && len(ls.Blanks) > 0,
		TimeTakenMs: elapsedMs,
		At:          now,
	})

	r.broadcaster.ToPlayer(r.Code, playerID, wsproto.EventLyricsResult, wsproto.LyricsResultPayload{
		Correct:      correct,
		PointsEarned: points,
	})

	r.checkLyricsComplete(ls)
	return nil
}

// checkLyricsComplete ends the round once every active player has
// submitted, since lyrics mode's "fully found" signal (a correct blank)
// is not a reliable completion marker on its own.
func (r *Room) checkLyricsComplete(ls *roommodel.LyricsRoundState) {
	for _, p := range r.ActivePlayers() {
		if !ls.Submitted[p.ID] {
			return
		}
	}
	r.cancelTimer(timerRoundEnd)
	r.endRound()
}
