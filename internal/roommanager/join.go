package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/validate"
	"beattrack/internal/wsproto"
)

// JoinParams is the inbound shape of a join_room call, already decoded
// off the wire; hub-assigned fields (ConnID, the new session id) are
// supplied by the caller.
type JoinParams struct {
	NewPlayerID string
	ConnID      string
	Pseudo      string
	AvatarURL   string
	Spectator   bool
	UserID      string
}

// JoinResult distinguishes a fresh seat from a reconnection re-bind so
// the hub can choose which S->C events to emit.
type JoinResult struct {
	Player      *roommodel.Player
	Rebound     bool
	OldPlayerID string
}

// JoinRoom implements spec.md 4.6's join path: a case-insensitive pseudo
// match against an inactive player re-binds the session; otherwise a new
// seat is created, subject to ROOM_FULL and GAME_ALREADY_STARTED rules.
func (r *Room) JoinRoom(params JoinParams) (*JoinResult, *wsproto.Error) {
	if !validate.Pseudo(params.Pseudo) {
		return nil, wsproto.NewError(wsproto.ErrInvalidPseudo, "pseudo must be 2-20 characters and exclude reserved symbols")
	}

	if existing := r.FindInactiveByPseudo(params.Pseudo); existing != nil {
		oldID := existing.ID
		r.cancelTimer(graceTimerName(oldID))
		existing.ID = params.NewPlayerID
		existing.ConnID = params.ConnID
		existing.Active = true
		existing.DisconnectedAt = nil
		if r.HostClientID == oldID {
			r.HostClientID = params.NewPlayerID
		}
		r.broadcaster.ToRoomExcept(r.Code, existing.ID, wsproto.EventPlayerJoined, wsproto.PlayerJoinedPayload{Player: existing})
		return &JoinResult{Player: existing, Rebound: true, OldPlayerID: oldID}, nil
	}

	if !params.Spectator && len(r.Players) >= r.Settings.MaxPlayers {
		return nil, wsproto.NewError(wsproto.ErrRoomFull, "room is full")
	}
	if r.Phase != roommodel.PhaseWaiting && !params.Spectator {
		return nil, wsproto.NewError(wsproto.ErrGameAlreadyStarted, "game already in progress")
	}

	p := &roommodel.Player{
		ID:          params.NewPlayerID,
		ConnID:      params.ConnID,
		UserID:      params.UserID,
		Name:        params.Pseudo,
		Avatar:      validate.SanitizeAvatarURL(params.AvatarURL),
		Active:      true,
		IsSpectator: params.Spectator,
		Lives:       r.Settings.EliminationLives,
	}
	r.Players = append(r.Players, p)
	if r.HostClientID == "" {
		r.HostClientID = p.ID
	}

	r.broadcaster.ToRoomExcept(r.Code, p.ID, wsproto.EventPlayerJoined, wsproto.PlayerJoinedPayload{Player: p})
	return &JoinResult{Player: p}, nil
}

// ToggleReady flips a player's ready flag.
func (r *Room) ToggleReady(playerID string) *wsproto.Error {
	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	p.Ready = !p.Ready
	r.broadcastRoomUpdated()
	return nil
}

// UpdateSettings applies a host-only, WAITING-phase-only partial
// settings patch.
func (r *Room) UpdateSettings(playerID string, patch roommodel.Settings, fields map[string]bool) *wsproto.Error {
	if !r.IsHost(playerID) {
		return wsproto.NewError(wsproto.ErrNotHost, "only the host can update settings")
	}
	if r.Phase != roommodel.PhaseWaiting {
		return wsproto.NewError(wsproto.ErrGameAlreadyStarted, "cannot change settings once the game has started")
	}
	r.Settings.ApplyPartial(patch, fields)
	r.TotalRounds = r.Settings.TotalRounds
	if r.Settings.GameMode == roommodel.ModeTimeline || r.Settings.GameMode == roommodel.ModeElimination {
		r.TotalRounds = roommodel.TimelineOverrideRounds
	}
	r.broadcastRoomUpdated()
	return nil
}

// JoinTeam assigns a player to a team, used by team-timeline mode.
func (r *Room) JoinTeam(playerID, teamID string) *wsproto.Error {
	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	if r.findTeam(teamID) == nil {
		return wsproto.NewError(wsproto.ErrServerError, "unknown team")
	}
	p.TeamID = teamID
	r.broadcastRoomUpdated()
	return nil
}
