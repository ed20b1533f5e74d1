package roommanager

import (
	"math"

	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

// SubmitTimelinePlacement implements "Timeline ingestion", per
// spec.md 4.5.
func (r *Room) SubmitTimelinePlacement(playerID string, insertIndex int, claimedTimestamp int64) *wsproto.Error {
	if r.Settings.GameMode != roommodel.ModeTimeline {
		return wsproto.NewError(wsproto.ErrServerError, "not a timeline-mode room")
	}
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return wsproto.NewError(wsproto.ErrRoundExpired, "no active round")
	}
	p := r.FindPlayer(playerID)
	if p == nil || p.IsSpectator {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	ts, ok := r.Round.State.(*roommodel.TimelineRoundState)
	if !ok {
		return wsproto.NewError(wsproto.ErrServerError, "round state mismatch")
	}

	key := playerID
	var cards []roommodel.TimelineCard
	var team *roommodel.Team
	if r.Settings.EnableTeams {
		if p.TeamID != r.CurrentTeamTurnID {
			return wsproto.NewError(wsproto.ErrNotYourTurn, "not your team's turn")
		}
		team = r.findTeam(p.TeamID)
		if team == nil {
			return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "team not found")
		}
		key = team.ID
		cards = team.TimelineCards
	} else {
		cards = p.TimelineCards
	}

	if ts.Answered[key] {
		return wsproto.NewError(wsproto.ErrAlreadyAnswered, "already answered this round")
	}
	if claimedTimestamp < r.Round.StartMs || claimedTimestamp > r.Round.EndMs {
		return wsproto.NewError(wsproto.ErrRoundExpired, "answer outside round window")
	}

	if insertIndex < 0 {
		insertIndex = 0
	}
	if insertIndex > len(cards) {
		insertIndex = len(cards)
	}

	before := math.MinInt
	if insertIndex > 0 {
		before = cards[insertIndex-1].Year
	}
	after := math.MaxInt
	if insertIndex < len(cards) {
		after = cards[insertIndex].Year
	}

	actualYear := r.Round.Track.ReleaseYear
	correct := before <= actualYear && actualYear <= after
	ts.Answered[key] = true

	if correct {
		card := roommodel.TimelineCard{
			TrackID: r.Round.Track.ID,
			Title:   r.Round.Track.Title,
			Artist:  r.Round.Track.Artist,
			Year:    actualYear,
		}
		updated := make([]roommodel.TimelineCard, 0, len(cards)+1)
		updated = append(updated, cards[:insertIndex]...)
		updated = append(updated, card)
		updated = append(updated, cards[insertIndex:]...)

		if team != nil {
			team.TimelineCards = updated
		} else {
			p.TimelineCards = updated
		}
		r.broadcaster.ToRoom(r.Code, wsproto.EventTimelineCardAdd, wsproto.TimelineCardAddedPayload{PlayerID: playerID, Card: card})

		if len(updated) >= r.Settings.TimelineCardsToWin {
			r.broadcaster.ToRoom(r.Code, wsproto.EventTimelineWinner, wsproto.TimelineWinnerPayload{PlayerID: playerID})
		}
	}

	r.broadcaster.ToPlayer(r.Code, playerID, wsproto.EventTimelinePlaceRes, wsproto.TimelinePlacementResultPayload{
		Correct: correct,
		Track:   r.Round.Track,
	})

	if r.timelineTurnShouldEnd(key, ts) {
		r.endTimelineRound()
	}
	return nil
}

func (r *Room) timelineTurnShouldEnd(answeredKey string, ts *roommodel.TimelineRoundState) bool {
	if r.Settings.EnableTeams {
		return answeredKey == r.CurrentTeamTurnID
	}
	for _, p := range r.ActivePlayers() {
		if !ts.Answered[p.ID] {
			return false
		}
	}
	return true
}

func (r *Room) endTimelineRound() {
	if r.Settings.EnableTeams && len(r.Teams) > 0 {
		r.CurrentTeamTurnID = r.nextTeamID(r.CurrentTeamTurnID)
	}
	r.endRound()
}

func (r *Room) findTeam(teamID string) *roommodel.Team {
	for _, t := range r.Teams {
		if t.ID == teamID {
			return t
		}
	}
	return nil
}

func (r *Room) nextTeamID(current string) string {
	if len(r.Teams) == 0 {
		return current
	}
	for i, t := range r.Teams {
		if t.ID == current {
			return r.Teams[(i+1)%len(r.Teams)].ID
		}
	}
	return r.Teams[0].ID
}

// timelineHasWinner reports whether any player (or team, in team mode)
// has reached the configured card count, used by gameShouldEnd for the
// REVEAL -> FINISHED transition.
func (r *Room) timelineHasWinner() bool {
	if r.Settings.EnableTeams {
		for _, t := range r.Teams {
			if len(t.TimelineCards) >= r.Settings.TimelineCardsToWin {
				return true
			}
		}
		return false
	}
	for _, p := range r.Players {
		if len(p.TimelineCards) >= r.Settings.TimelineCardsToWin {
			return true
		}
	}
	return false
}
