package roommodel

// TimelineCard is one track a player has placed on their personal (or
// team) chronological timeline.
type TimelineCard struct {
	TrackID string `json:"trackId"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Year    int    `json:"year"`
}

// Player is one seat in a Room. ID is the current session id; a
// reconnect rebinds ID to a new session without touching anything else.
type Player struct {
	ID             string         `json:"id"`
	ConnID         string         `json:"-"`
	UserID         string         `json:"userId,omitempty"`
	Name           string         `json:"name"`
	Avatar         string         `json:"avatar,omitempty"`
	Ready          bool           `json:"ready"`
	Active         bool           `json:"active"`
	Score          int            `json:"score"`
	Streak         int            `json:"streak"`
	FoundArtist    bool           `json:"foundArtist"`
	FoundTitle     bool           `json:"foundTitle"`
	CooldownUntil  *int64         `json:"cooldownUntil,omitempty"`
	VotedPause     bool           `json:"votedPause"`
	TimelineCards  []TimelineCard `json:"timelineCards,omitempty"`
	HasBuzzed      bool           `json:"hasBuzzed"`
	Eliminated     bool           `json:"eliminated"`
	Lives          int            `json:"lives"`
	IsSpectator    bool           `json:"isSpectator"`
	TeamID         string         `json:"teamId,omitempty"`
	PowerUps       []PowerUp      `json:"powerUps,omitempty"`
	ActivePowerUp  *PowerUp       `json:"activePowerUp,omitempty"`

	// DisconnectedAt is set when Active transitions to false, used by the
	// reconnection-grace timer; nil while Active.
	DisconnectedAt *int64 `json:"-"`
}

// FullyFound reports whether the player has found both artist and title
// this round.
func (p *Player) FullyFound() bool {
	return p.FoundArtist && p.FoundTitle
}

// IsActivePlayer matches the glossary's "active player": connected, not
// eliminated, not a spectator.
func (p *Player) IsActivePlayer() bool {
	return p.Active && !p.Eliminated && !p.IsSpectator
}

// ResetForNewRound clears per-round state. Called at round start.
func (p *Player) ResetForNewRound() {
	p.VotedPause = false
	p.FoundArtist = false
	p.FoundTitle = false
	p.CooldownUntil = nil
	p.HasBuzzed = false
}

// ResetForNewGame clears per-game state. Called on return_to_lobby.
func (p *Player) ResetForNewGame() {
	p.Score = 0
	p.Streak = 0
	p.Eliminated = false
	p.TimelineCards = nil
	p.ActivePowerUp = nil
	p.PowerUps = nil
	p.ResetForNewRound()
}

// InCooldown reports whether, at time nowMs, the player is still serving
// a wrong-answer cooldown.
func (p *Player) InCooldown(nowMs int64) bool {
	return p.CooldownUntil != nil && nowMs < *p.CooldownUntil
}
