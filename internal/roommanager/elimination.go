package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

// applyEliminationLives implements "Elimination mode", per spec.md 4.5:
// called from endRound once the round's answers are all in.
func (r *Room) applyEliminationLives() {
	active := r.ActivePlayers()
	if len(active) == 0 {
		return
	}

	var failed, succeeded []*roommodel.Player
	for _, p := range active {
		if p.FoundArtist || p.FoundTitle {
			succeeded = append(succeeded, p)
		} else {
			failed = append(failed, p)
		}
	}

	switch {
	case len(failed) == 0:
		// No one failed: only the worst-ranked finisher loses a life.
		if last := lastRankedBy(succeeded, r.Round.PlayerPositions); last != nil {
			r.loseLife(last)
		}
	case len(succeeded) == 0:
		// Everyone failed: no life lost.
		return
	default:
		for _, p := range failed {
			r.loseLife(p)
		}
	}
}

// lastRankedBy returns the player with the highest (worst) recorded
// round position among candidates.
func lastRankedBy(candidates []*roommodel.Player, positions map[string]int) *roommodel.Player {
	var worst *roommodel.Player
	worstRank := -1
	for _, p := range candidates {
		rank := positions[p.ID]
		if rank > worstRank {
			worstRank = rank
			worst = p
		}
	}
	return worst
}

func (r *Room) loseLife(p *roommodel.Player) {
	p.Lives--
	if p.Lives <= 0 {
		p.Lives = 0
		p.Eliminated = true
		r.broadcaster.ToRoom(r.Code, wsproto.EventPlayerEliminated, wsproto.PlayerEliminatedPayload{PlayerID: p.ID})
	}
}
