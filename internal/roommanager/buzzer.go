package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

const timerBuzzerRelease = "buzzer-release"

// BuzzerPress implements "first press within PLAYING wins the
// buzzerLock", per spec.md 4.5's "Buzzer mode".
func (r *Room) BuzzerPress(playerID string) *wsproto.Error {
	if r.Settings.GameMode != roommodel.ModeBuzzer {
		return wsproto.NewError(wsproto.ErrServerError, "not a buzzer-mode room")
	}
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return wsproto.NewError(wsproto.ErrRoundExpired, "no active round")
	}
	p := r.FindPlayer(playerID)
	if p == nil || p.IsSpectator || p.Eliminated {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player cannot buzz")
	}

	bs, ok := r.Round.State.(*roommodel.BuzzerRoundState)
	if !ok {
		return wsproto.NewError(wsproto.ErrServerError, "round state mismatch")
	}
	if bs.LockHolder != "" && !bs.Released {
		return nil
	}

	bs.LockHolder = playerID
	bs.LockedAt = nowMs()
	bs.Released = false
	p.HasBuzzed = true

	r.broadcaster.ToRoom(r.Code, wsproto.EventBuzzerLocked, wsproto.BuzzerLockedPayload{
		PlayerID:     playerID,
		Pseudo:       p.Name,
		BuzzerTimeMS: r.Settings.BuzzerTimeMs,
	})
	r.scheduleAfter(toDuration(r.Settings.BuzzerTimeMs), timerBuzzerRelease, func(rm *Room) {
		rm.releaseBuzzerLock(true)
	})
	return nil
}

// releaseBuzzerLock frees the buzzer lock after a wrong answer or a
// timeout. If every active, non-eliminated player has already buzzed,
// the round ends via buzzer_timeout instead of staying open.
func (r *Room) releaseBuzzerLock(broadcastRelease bool) {
	bs, ok := r.Round.State.(*roommodel.BuzzerRoundState)
	if !ok {
		return
	}
	bs.LockHolder = ""
	bs.Released = true
	r.cancelTimer(timerBuzzerRelease)

	if broadcastRelease {
		r.broadcaster.ToRoom(r.Code, wsproto.EventBuzzerReleased, struct{}{})
	}

	allBuzzed := true
	for _, p := range r.ActivePlayers() {
		if !p.HasBuzzed {
			allBuzzed = false
			break
		}
	}
	if allBuzzed {
		r.broadcaster.ToRoom(r.Code, wsproto.EventBuzzerTimeout, struct{}{})
		r.endRound()
	}
}
