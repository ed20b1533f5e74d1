// Package wsproto defines the wire-level message envelope, event name
// constants, payload types, and error taxonomy for the bidirectional
// framed message channel described in spec.md 6. It is a pure data
// package: no transport, no room logic, grounded on the teacher's
// internal/models.WSMessage envelope shape (internal/models/models.go)
// generalized from a single flat WSMessageType enum to typed payloads
// per event.
package wsproto

import "encoding/json"

// Envelope is the on-the-wire shape of every message in both
// directions: a string event name plus a JSON-encoded payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Encode marshals an event name and a typed payload into an Envelope
// ready for transport-layer serialization.
func Encode(event string, payload any) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Event: event, Payload: raw}, nil
}

// Decode unmarshals an Envelope's payload into dst.
func (e *Envelope) Decode(dst any) error {
	return json.Unmarshal(e.Payload, dst)
}

// Client-emitted (C->S) event names, per spec.md 6.
const (
	EventCreateRoom      = "create_room"
	EventJoinRoom        = "join_room"
	EventLeaveRoom       = "leave_room"
	EventKickPlayer      = "kick_player"
	EventTogglePause     = "toggle_pause"
	EventToggleReady     = "toggle_ready"
	EventUpdateSettings  = "update_settings"
	EventStartGame       = "start_game"
	EventSubmitAnswer    = "submit_answer"
	EventRequestNextRnd  = "request_next_round"
	EventReturnToLobby   = "return_to_lobby"
	EventSendMessage     = "send_message"
	EventSendEmote       = "send_emote"
	EventBuzzerPress     = "buzzer_press"
	EventActivatePowerUp = "activate_powerup"
	EventJoinTeam        = "join_team"
	EventSubmitLyrics    = "submit_lyrics"
	EventSubmitTimeline  = "submit_timeline_placement"
)

// Server-emitted (S->C) event names, per spec.md 6.
const (
	EventRoomCreated      = "room_created"
	EventRoomJoined       = "room_joined"
	EventRoomUpdated      = "room_updated"
	EventPlayerJoined     = "player_joined"
	EventPlayerLeft       = "player_left"
	EventPlayerKicked     = "player_kicked"
	EventCountdownStart   = "countdown_start"
	EventRoundStart       = "round_start"
	EventAnswerResult     = "answer_result"
	EventPlayerFound      = "player_found"
	EventRoundEnd         = "round_end"
	EventGameOver         = "game_over"
	EventTimeSync         = "time_sync"
	EventNewMessage       = "new_message"
	EventEmoteReceived    = "emote_received"
	EventTimelineCardAdd  = "timeline_card_added"
	EventTimelineWinner   = "timeline_winner"
	EventTimelinePlaceRes = "timeline_placement_result"
	EventBuzzerLocked     = "buzzer_locked"
	EventBuzzerReleased   = "buzzer_released"
	EventBuzzerTimeout    = "buzzer_timeout"
	EventPlayerEliminated = "player_eliminated"
	EventIntroTierUnlock  = "intro_tier_unlock"
	EventLyricsData       = "lyrics_data"
	EventLyricsResult     = "lyrics_result"
	EventPowerUpActivated = "powerup_activated"
	EventPowerUpEarned    = "powerup_earned"
	EventContextualReact  = "contextual_reaction"
	EventError            = "error"
)
