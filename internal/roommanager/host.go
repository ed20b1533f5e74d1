package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/wsproto"
)

func graceTimerName(playerID string) string {
	return "grace:" + playerID
}

// LeaveRoom implements voluntary departure: the player is removed
// immediately (no grace period), host migration runs if needed, and the
// room is torn down via onEmpty once no players remain.
func (r *Room) LeaveRoom(playerID string) {
	if !r.RemovePlayer(playerID) {
		return
	}
	r.cancelTimer(graceTimerName(playerID))
	r.announceDeparture(playerID)
	r.afterRosterChange()
}

// KickPlayer implements host-only forcible removal, per spec.md 4.7 and
// the open question that a kick cancels any pending reconnection grace
// immediately.
func (r *Room) KickPlayer(hostID, targetID string) *wsproto.Error {
	if !r.IsHost(hostID) {
		return wsproto.NewError(wsproto.ErrNotHost, "only the host can kick players")
	}
	if targetID == hostID {
		return wsproto.NewError(wsproto.ErrServerError, "host cannot kick itself")
	}
	if r.FindPlayer(targetID) == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}

	r.cancelTimer(graceTimerName(targetID))
	r.RemovePlayer(targetID)
	r.broadcaster.ToRoom(r.Code, wsproto.EventPlayerKicked, wsproto.PlayerKickedPayload{PlayerID: targetID})
	r.announceDeparture(targetID)
	r.afterRosterChange()
	return nil
}

// Disconnect marks a player inactive and arms its reconnection grace
// timer, per spec.md 4.6's "Reconnection".
func (r *Room) Disconnect(playerID string) {
	p := r.FindPlayer(playerID)
	if p == nil || !p.Active {
		return
	}
	p.Active = false
	now := nowMs()
	p.DisconnectedAt = &now

	r.scheduleAfter(roommodel.ReconnectionWindow, graceTimerName(playerID), func(rm *Room) {
		rm.expireGrace(playerID)
	})
}

func (r *Room) expireGrace(playerID string) {
	if !r.RemovePlayer(playerID) {
		return
	}
	r.announceDeparture(playerID)
	r.afterRosterChange()
}

// announceDeparture broadcasts player_left, running host migration
// first (per spec.md 4.7) so newHostId is included in the same message
// when the departing player held the host seat.
func (r *Room) announceDeparture(departedID string) {
	newHostID := ""
	if r.HostClientID == departedID {
		newHostID = r.ElectNewHost()
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventPlayerLeft, wsproto.PlayerLeftPayload{
		PlayerID:  departedID,
		NewHostID: newHostID,
	})
}

// afterRosterChange reacts to a player leaving the room outright: it
// may unblock an early round termination, may end the game if too few
// players remain for the current mode, and tears the room down once
// empty.
func (r *Room) afterRosterChange() {
	if len(r.Players) == 0 {
		if r.onEmpty != nil {
			code := r.Code
			go r.onEmpty(code)
		}
		r.Stop()
		return
	}
	r.broadcastRoomUpdated()
	if r.Phase == roommodel.PhasePlaying {
		if r.Settings.GameMode == roommodel.ModeElimination && r.gameShouldEnd() {
			r.endRound()
			return
		}
		r.checkEarlyTermination()
	}
}
