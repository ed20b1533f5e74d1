package roommanager

import (
	"beattrack/internal/validate"
	"beattrack/internal/wsproto"
)

// SendMessage implements the rate-limited send_message path, per
// spec.md 4.3's chat sliding window and 6's message length rule.
func (r *Room) SendMessage(playerID, message string) *wsproto.Error {
	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	if !validate.Message(message) {
		return wsproto.NewError(wsproto.ErrServerError, "message too long")
	}
	if r.limiter.CheckChat(playerID, nowMs()) {
		return wsproto.NewError(wsproto.ErrRateLimited, "sending messages too quickly")
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventNewMessage, wsproto.NewMessagePayload{
		PlayerID:  playerID,
		Pseudo:    p.Name,
		Message:   message,
		Timestamp: nowMs(),
	})
	return nil
}

// SendEmote implements the rate-limited send_emote path.
func (r *Room) SendEmote(playerID, emote string) *wsproto.Error {
	p := r.FindPlayer(playerID)
	if p == nil {
		return wsproto.NewError(wsproto.ErrPlayerNotInRoom, "player not in room")
	}
	if r.limiter.CheckEmote(playerID, nowMs()) {
		return wsproto.NewError(wsproto.ErrRateLimited, "sending emotes too quickly")
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventEmoteReceived, wsproto.EmoteReceivedPayload{
		PlayerID: playerID,
		Emote:    emote,
	})
	return nil
}
