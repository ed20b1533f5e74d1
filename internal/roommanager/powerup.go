package roommanager

import (
	"math/rand/v2"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

// powerUpPool is the set a maybeAwardPowerUp draw picks from.
var powerUpPool = []roommodel.PowerUp{roommodel.PowerUpX2, roommodel.PowerUpSteal, roommodel.PowerUpShield}

// powerUpEarnStreak is the streak cadence at which a fully-found answer
// earns a random power-up: SPEC_FULL.md's resolution of spec.md 9's
// otherwise-unspecified earn trigger, mirroring the streak-bonus
// table's own milestone shape in internal/scoring.
const powerUpEarnStreak = 3

// ActivatePowerUp implements activate_powerup: a player may hold at
// most MaxPowerUps, and at most one is active at a time.
func (r *Room) ActivatePowerUp(playerID string, powerUp roommodel.PowerUp) *wsproto.Error {
	if !r.Settings.EnablePowerUps {
		return wsproto.NewError(wsproto.ErrServerError, "power-ups are disabled in this room")
	}
	p := r.FindPlayer(playerID)
	if p == nil || p.IsSpectator {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	if p.ActivePowerUp != nil {
		return wsproto.NewError(wsproto.ErrServerError, "a power-up is already active")
	}

	idx := -1
	for i, owned := range p.PowerUps {
		if owned == powerUp {
			idx = i
			break
		}
	}
	if idx < 0 {
		return wsproto.NewError(wsproto.ErrServerError, "power-up not held")
	}

	p.PowerUps = append(p.PowerUps[:idx], p.PowerUps[idx+1:]...)
	activated := powerUp
	p.ActivePowerUp = &activated

	r.broadcaster.ToRoom(r.Code, wsproto.EventPowerUpActivated, wsproto.PowerUpActivatedPayload{
		PlayerID: playerID,
		PowerUp:  powerUp,
	})
	return nil
}

// awardPowerUp grants a power-up to a player, capped at MaxPowerUps, and
// announces it.
func (r *Room) awardPowerUp(playerID string, powerUp roommodel.PowerUp) {
	p := r.FindPlayer(playerID)
	if p == nil || len(p.PowerUps) >= roommodel.MaxPowerUps {
		return
	}
	p.PowerUps = append(p.PowerUps, powerUp)
	r.broadcaster.ToPlayer(r.Code, playerID, wsproto.EventPowerUpEarned, wsproto.PowerUpEarnedPayload{
		PlayerID: playerID,
		PowerUp:  powerUp,
	})
}

// maybeAwardPowerUp grants a random power-up every powerUpEarnStreak
// consecutive fully-found rounds, called from the free-text answer
// ingestion path's fully-found branch.
func (r *Room) maybeAwardPowerUp(p *roommodel.Player) {
	if !r.Settings.EnablePowerUps {
		return
	}
	if p.Streak == 0 || p.Streak%powerUpEarnStreak != 0 {
		return
	}
	r.awardPowerUp(p.ID, powerUpPool[rand.IntN(len(powerUpPool))])
}
