package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

// TogglePause implements spec.md 4.5's "Pause": a majority-vote pause
// that rebases the round's startMs/endMs on resume so answer-timestamp
// arithmetic keeps working across the paused interval. Intro and buzzer
// modes are not pausable, per spec.md 9's open question (b).
func (r *Room) TogglePause(playerID string) *wsproto.Error {
	if r.Settings.GameMode == roommodel.ModeIntro || r.Settings.GameMode == roommodel.ModeBuzzer {
		return wsproto.NewError(wsproto.ErrServerError, "this mode cannot be paused")
	}
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return wsproto.NewError(wsproto.ErrRoundExpired, "no active round to pause")
	}
	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}

	p.VotedPause = !p.VotedPause
	votes := 0
	total := 0
	for _, pl := range r.ActivePlayers() {
		total++
		if pl.VotedPause {
			votes++
		}
	}
	majority := total / 2

	now := nowMs()
	switch {
	case !r.Paused && votes > majority:
		r.Paused = true
		r.Round.Paused = true
		r.Round.RemainingMs = r.Round.EndMs - now
		r.cancelTimer(timerRoundEnd)
	case r.Paused && votes <= majority:
		r.Paused = false
		r.Round.Paused = false
		r.Round.StartMs = now - (int64(r.Settings.RoundDurationMs) - r.Round.RemainingMs)
		r.Round.EndMs = now + r.Round.RemainingMs
		r.scheduleAfter(toDuration(int(r.Round.RemainingMs)), timerRoundEnd, func(rm *Room) {
			rm.endRound()
		})
	}

	r.broadcastRoomUpdated()
	return nil
}
