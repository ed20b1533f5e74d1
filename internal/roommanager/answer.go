package roommanager

import (
	"math"

	"beattrack/internal/fuzzy"
	"beattrack/internal/roommodel"
	"beattrack/internal/scoring"
	"beattrack/internal/wsproto"
)

// SubmitAnswer implements the free-text answer ingestion path shared by
// blind-test, elimination, buzzer, and intro modes, per spec.md 4.5's
// "Answer ingestion" and "additive partial-credit rule".
func (r *Room) SubmitAnswer(playerID, answer string, claimedTimestamp int64) *wsproto.Error {
	mode := r.Settings.GameMode
	if mode == roommodel.ModeTimeline || mode == roommodel.ModeLyrics {
		return wsproto.NewError(wsproto.ErrServerError, "wrong ingestion path for this mode")
	}
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return wsproto.NewError(wsproto.ErrRoundExpired, "no active round")
	}

	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	if p.IsSpectator || p.Eliminated {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "spectators and eliminated players cannot answer")
	}
	if p.FullyFound() {
		return wsproto.NewError(wsproto.ErrAlreadyAnswered, "already fully found this round")
	}

	now := nowMs()
	if p.InCooldown(now) {
		return wsproto.NewError(wsproto.ErrAnswerCooldown, "cooldown active")
	}

	if mode == roommodel.ModeBuzzer {
		bs, ok := r.Round.State.(*roommodel.BuzzerRoundState)
		if !ok || bs.LockHolder != playerID || bs.Released {
			return wsproto.NewError(wsproto.ErrNotYourTurn, "buzzer lock not held")
		}
	}
	if mode == roommodel.ModeIntro {
		is, ok := r.Round.State.(*roommodel.IntroRoundState)
		if !ok || is.Phase != introPhaseGuessing {
			return wsproto.NewError(wsproto.ErrRoundExpired, "not in a guessing window")
		}
	}

	if claimedTimestamp < r.Round.StartMs || claimedTimestamp > r.Round.EndMs {
		return wsproto.NewError(wsproto.ErrRoundExpired, "answer outside round window")
	}
	if r.limiter.CheckAnswerAttempt(playerID, r.Code, r.CurrentRound) {
		return wsproto.NewError(wsproto.ErrRateLimited, "too many answer attempts this round")
	}

	effectiveTs := clampClaimedTimestamp(claimedTimestamp, now)
	elapsedMs := effectiveTs - r.Round.StartMs

	result := fuzzy.Check(answer, r.Round.Track.Title, r.Round.Track.Artist, r.Settings.AcceptArtistOnly, r.Settings.AcceptTitleOnly)

	foundPart := roommodel.FoundPartNone
	if matchesArtist(result.MatchType) && !p.FoundArtist {
		p.FoundArtist = true
		foundPart = roommodel.FoundPartArtist
	}
	if matchesTitle(result.MatchType) && !p.FoundTitle {
		p.FoundTitle = true
		if foundPart == roommodel.FoundPartArtist {
			foundPart = roommodel.FoundPartBoth
		} else {
			foundPart = roommodel.FoundPartTitle
		}
	}

	attempt := roommodel.Attempt{
		PlayerID:    playerID,
		Answer:      answer,
		TimeTakenMs: int(elapsedMs),
		At:          now,
	}

	if foundPart == roommodel.FoundPartNone {
		attempt.Correct = false
		r.Round.Attempts = append(r.Round.Attempts, attempt)
		return r.handleMiss(p, mode, result, now)
	}

	attempt.Correct = true
	r.Round.Attempts = append(r.Round.Attempts, attempt)
	p.CooldownUntil = nil

	fullyFound := p.FullyFound()
	position := 10
	if fullyFound {
		position = r.Round.MarkFound(playerID)
		p.Streak++
		r.maybeAwardPowerUp(p)
	}

	points := r.computePoints(elapsedMs, position, foundPart, p, fullyFound)
	p.Score += points
	r.Round.PlayerRoundPoints[playerID] += points

	r.broadcaster.ToPlayer(r.Code, playerID, wsproto.EventAnswerResult, wsproto.AnswerResultPayload{
		Correct:      true,
		PointsEarned: points,
		TotalScore:   p.Score,
		Streak:       p.Streak,
		FoundPart:    string(foundPart),
	})

	if fullyFound {
		r.broadcaster.ToRoom(r.Code, wsproto.EventPlayerFound, wsproto.PlayerFoundPayload{
			PlayerID:    playerID,
			Pseudo:      p.Name,
			Position:    position,
			TimeTakenMS: elapsedMs,
		})
		if mode == roommodel.ModeBuzzer {
			r.cancelTimer(timerBuzzerRelease)
		}
		r.checkEarlyTermination()
	}
	return nil
}

func matchesArtist(mt fuzzy.MatchType) bool {
	return mt == fuzzy.MatchArtist || mt == fuzzy.MatchBoth
}

func matchesTitle(mt fuzzy.MatchType) bool {
	return mt == fuzzy.MatchTitle || mt == fuzzy.MatchBoth
}

// handleMiss implements the "nothing new" branch: duplicate parts are
// free (ALREADY_ANSWERED), otherwise a cooldown is applied unless the
// player's shield power-up is active.
func (r *Room) handleMiss(p *roommodel.Player, mode roommodel.GameMode, result fuzzy.Result, now int64) *wsproto.Error {
	duplicate := (matchesArtist(result.MatchType) && p.FoundArtist) || (matchesTitle(result.MatchType) && p.FoundTitle)
	if duplicate {
		return wsproto.NewError(wsproto.ErrAlreadyAnswered, "already found that part")
	}

	var cooldownUntil *int64
	shieldActive := p.ActivePowerUp != nil && *p.ActivePowerUp == roommodel.PowerUpShield
	if !shieldActive {
		cu := now + int64(r.Settings.WrongAnswerCooldownMs)
		p.CooldownUntil = &cu
		cooldownUntil = &cu
	}

	r.broadcaster.ToPlayer(r.Code, p.ID, wsproto.EventAnswerResult, wsproto.AnswerResultPayload{
		Correct:       false,
		CooldownUntil: cooldownUntil,
	})

	if mode == roommodel.ModeBuzzer {
		r.releaseBuzzerLock(true)
	}
	return nil
}

// computePoints applies the multiplier chain (intro tier, difficulty,
// x2 power-up) then the artist-or-title vs. both distribution rule,
// then the steal power-up transfer, per spec.md 4.5.
func (r *Room) computePoints(elapsedMs int64, position int, foundPart roommodel.FoundPart, p *roommodel.Player, fullyFound bool) int {
	breakdown := scoring.Calculate(int(elapsedMs), r.Settings.RoundDurationMs, p.Streak, position)
	full := float64(breakdown.Total)

	if r.Settings.GameMode == roommodel.ModeIntro {
		if is, ok := r.Round.State.(*roommodel.IntroRoundState); ok {
			full *= introTierMultiplier(is.Tier)
		}
	}
	full *= roommodel.DifficultyMultiplier[r.Settings.Difficulty]
	if p.ActivePowerUp != nil && *p.ActivePowerUp == roommodel.PowerUpX2 {
		full *= 2
	}

	fullInt := int(math.Floor(full))
	points := fullInt
	if foundPart != roommodel.FoundPartBoth {
		points = fullInt / 2
	}

	if p.ActivePowerUp != nil && *p.ActivePowerUp == roommodel.PowerUpSteal && fullyFound && position == 1 {
		if target := r.highestScoringOtherPlayer(p.ID); target != nil {
			transfer := min(roommodel.StealTransferCap, target.Score)
			if transfer > 0 {
				target.Score -= transfer
				points += transfer
			}
		}
	}
	return points
}

func (r *Room) highestScoringOtherPlayer(excludeID string) *roommodel.Player {
	var best *roommodel.Player
	for _, p := range r.Players {
		if p.ID == excludeID {
			continue
		}
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}
