package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

const (
	introPhaseListening = "listening"
	introPhaseGuessing  = "guessing"
	timerIntroTier      = "intro-tier"
)

// introTierMultiplier returns the point multiplier for an intro tier
// index, per spec.md 4.5's "Point multipliers per tier".
func introTierMultiplier(tier int) float64 {
	if tier < 0 || tier >= len(roommodel.IntroTierMultipliers) {
		return 1
	}
	return roommodel.IntroTierMultipliers[tier]
}

// scheduleIntroTier drives the two-phase tier loop: listen, then guess,
// then advance; after the last tier the round ends.
func (r *Room) scheduleIntroTier(tier int) {
	if tier >= len(roommodel.IntroTierDurationsMS) {
		r.endRound()
		return
	}
	is, ok := r.Round.State.(*roommodel.IntroRoundState)
	if !ok {
		return
	}
	is.Tier = tier
	is.Phase = introPhaseListening

	durationMs := roommodel.IntroTierDurationsMS[tier]
	r.broadcaster.ToRoom(r.Code, wsproto.EventIntroTierUnlock, wsproto.IntroTierUnlockPayload{
		Tier:       tier,
		DurationMS: durationMs,
		Phase:      introPhaseListening,
	})

	r.scheduleAfter(toDuration(durationMs), timerIntroTier, func(rm *Room) {
		rm.beginIntroGuessWindow(tier)
	})
}

func (r *Room) beginIntroGuessWindow(tier int) {
	is, ok := r.Round.State.(*roommodel.IntroRoundState)
	if !ok {
		return
	}
	is.Phase = introPhaseGuessing

	r.broadcaster.ToRoom(r.Code, wsproto.EventIntroTierUnlock, wsproto.IntroTierUnlockPayload{
		Tier:       tier,
		DurationMS: roommodel.IntroGuessWindowMS,
		Phase:      introPhaseGuessing,
	})

	r.scheduleAfter(toDuration(roommodel.IntroGuessWindowMS), timerIntroTier, func(rm *Room) {
		rm.scheduleIntroTier(tier + 1)
	})
}
