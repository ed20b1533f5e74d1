package hub

import (
	"log"

	"github.com/google/uuid"

	"beattrack/internal/roommanager"
	"beattrack/internal/roommodel"
	"beattrack/internal/validate"
	"beattrack/internal/wsproto"
)

// dispatch decodes one inbound envelope and routes it either to a
// hub-level handler (create_room, join_room, which don't yet have a
// bound room) or onto the owning Room's mailbox.
func (h *Hub) dispatch(c *Client, env *wsproto.Envelope) {
	switch env.Event {
	case wsproto.EventCreateRoom:
		h.handleCreateRoom(c, env)
		return
	case wsproto.EventJoinRoom:
		h.handleJoinRoom(c, env)
		return
	}

	if c.RoomCode == "" {
		c.SendError(wsproto.NewError(wsproto.ErrInvalidRoomCode, "not in a room"))
		return
	}
	room, err := h.registry.Get(c.RoomCode)
	if err != nil {
		c.SendError(wsproto.NewError(wsproto.ErrRoomNotFound, "room no longer exists"))
		return
	}

	playerID := c.PlayerID
	switch env.Event {
	case wsproto.EventLeaveRoom:
		room.Submit(func(rm *roommanager.Room) { rm.LeaveRoom(playerID) })
	case wsproto.EventKickPlayer:
		var p wsproto.KickPlayerPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.KickPlayer(playerID, p.PlayerID)
		})
	case wsproto.EventToggleReady:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.ToggleReady(playerID)
		})
	case wsproto.EventUpdateSettings:
		var p wsproto.UpdateSettingsPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.UpdateSettings(playerID, p.Patch, p.Fields)
		})
	case wsproto.EventTogglePause:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.TogglePause(playerID)
		})
	case wsproto.EventStartGame:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.StartGame(playerID)
		})
	case wsproto.EventSubmitAnswer:
		var p wsproto.SubmitAnswerPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		if !validate.Answer(p.Answer) {
			c.SendError(wsproto.NewError(wsproto.ErrServerError, "answer too long"))
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.SubmitAnswer(playerID, p.Answer, p.Timestamp)
		})
	case wsproto.EventRequestNextRnd:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.RequestNextRound(playerID)
		})
	case wsproto.EventReturnToLobby:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.ReturnToLobby(playerID)
		})
	case wsproto.EventSendMessage:
		var p wsproto.SendMessagePayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.SendMessage(playerID, p.Message)
		})
	case wsproto.EventSendEmote:
		var p wsproto.SendEmotePayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.SendEmote(playerID, p.Emote)
		})
	case wsproto.EventBuzzerPress:
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.BuzzerPress(playerID)
		})
	case wsproto.EventActivatePowerUp:
		var p wsproto.ActivatePowerUpPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.ActivatePowerUp(playerID, p.PowerUp)
		})
	case wsproto.EventJoinTeam:
		var p wsproto.JoinTeamPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.JoinTeam(playerID, p.TeamID)
		})
	case wsproto.EventSubmitTimeline:
		var p wsproto.SubmitTimelinePlacementPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.SubmitTimelinePlacement(playerID, p.InsertIndex, p.Timestamp)
		})
	case wsproto.EventSubmitLyrics:
		var p wsproto.SubmitLyricsPayload
		if err := env.Decode(&p); err != nil {
			c.SendError(badPayload())
			return
		}
		submitChecked(room, c, func(rm *roommanager.Room) *wsproto.Error {
			return rm.SubmitLyrics(playerID, p.Answers, p.Timestamp)
		})
	default:
		c.SendError(wsproto.NewError(wsproto.ErrServerError, "unknown event"))
	}
}

func badPayload() *wsproto.Error {
	return wsproto.NewError(wsproto.ErrServerError, "malformed payload")
}

// submitChecked runs fn on the room's mailbox and relays any returned
// *wsproto.Error back to the sender only, per spec.md 7.
func submitChecked(room *roommanager.Room, c *Client, fn func(*roommanager.Room) *wsproto.Error) {
	room.Submit(func(rm *roommanager.Room) {
		if wsErr := fn(rm); wsErr != nil {
			c.SendError(wsErr)
		}
	})
}

func (h *Hub) handleCreateRoom(c *Client, env *wsproto.Envelope) {
	var p wsproto.CreateRoomPayload
	if err := env.Decode(&p); err != nil {
		c.SendError(badPayload())
		return
	}
	if !validate.Pseudo(p.Pseudo) {
		c.SendError(wsproto.NewError(wsproto.ErrInvalidPseudo, "pseudo must be 2-20 characters and exclude reserved symbols"))
		return
	}

	settings := roommodel.DefaultSettings()
	if p.Settings != nil {
		settings = *p.Settings
	}
	settings.Clamp()

	host := &roommodel.Player{
		ID:     uuid.NewString(),
		ConnID: c.ID,
		UserID: c.AuthUserID,
		Name:   p.Pseudo,
		Avatar: validate.SanitizeAvatarURL(p.AvatarURL),
		Active: true,
		Lives:  settings.EliminationLives,
	}

	room, err := h.registry.CreateRoom(host, settings)
	if err != nil {
		log.Printf("hub: create_room failed: %v", err)
		c.SendError(wsproto.NewError(wsproto.ErrServerError, "could not create room"))
		return
	}

	h.bindClientToRoom(c, room.Code, host.ID)
	c.Send(wsproto.EventRoomCreated, wsproto.RoomCreatedPayload{RoomCode: room.Code, RoomState: room.Room})
}

func (h *Hub) handleJoinRoom(c *Client, env *wsproto.Envelope) {
	var p wsproto.JoinRoomPayload
	if err := env.Decode(&p); err != nil {
		c.SendError(badPayload())
		return
	}
	if p.RoomCode == "" {
		c.SendError(wsproto.NewError(wsproto.ErrInvalidRoomCode, "missing room code"))
		return
	}

	room, err := h.registry.Get(p.RoomCode)
	if err != nil {
		c.SendError(wsproto.NewError(wsproto.ErrRoomNotFound, "no such room"))
		return
	}

	newID := uuid.NewString()
	resultCh := make(chan struct {
		res *roommanager.JoinResult
		err *wsproto.Error
	}, 1)
	room.Submit(func(rm *roommanager.Room) {
		res, wsErr := rm.JoinRoom(roommanager.JoinParams{
			NewPlayerID: newID,
			ConnID:      c.ID,
			Pseudo:      p.Pseudo,
			AvatarURL:   p.AvatarURL,
			Spectator:   p.Spectator,
			UserID:      c.AuthUserID,
		})
		resultCh <- struct {
			res *roommanager.JoinResult
			err *wsproto.Error
		}{res, wsErr}
	})

	out := <-resultCh
	if out.err != nil {
		c.SendError(out.err)
		return
	}

	h.bindClientToRoom(c, room.Code, out.res.Player.ID)
	c.Send(wsproto.EventRoomJoined, wsproto.RoomJoinedPayload{RoomState: room.Room})
}
