// Package roommodel holds the data model shared by the room registry and
// the room manager state machine: rooms, players, settings, and the
// tagged-variant round state for each game mode.
package roommodel

import "time"

// Phase is the room's position in the WAITING -> COUNTDOWN -> PLAYING ->
// REVEAL -> FINISHED state machine.
type Phase string

const (
	PhaseWaiting   Phase = "WAITING"
	PhaseCountdown Phase = "COUNTDOWN"
	PhasePlaying   Phase = "PLAYING"
	PhaseReveal    Phase = "REVEAL"
	PhaseFinished  Phase = "FINISHED"
)

// GameMode selects which round-state variant and scoring rules apply.
type GameMode string

const (
	ModeBlindTest  GameMode = "blind-test"
	ModeTimeline   GameMode = "timeline"
	ModeBuzzer     GameMode = "buzzer"
	ModeElimination GameMode = "elimination"
	ModeIntro      GameMode = "intro"
	ModeLyrics     GameMode = "lyrics"
)

// Difficulty scales point totals.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyMultiplier is applied after intro-tier and before power-up
// multipliers, per spec.md 4.5.
var DifficultyMultiplier = map[Difficulty]float64{
	DifficultyEasy:   0.75,
	DifficultyMedium: 1.0,
	DifficultyHard:   1.5,
}

// PowerUp is one of the limited (<=3 per player) activatable boosts.
type PowerUp string

const (
	PowerUpX2     PowerUp = "x2"
	PowerUpSteal  PowerUp = "steal"
	PowerUpShield PowerUp = "shield"
)

const (
	// CountdownMS is the fixed COUNTDOWN -> PLAYING delay.
	CountdownMS = 3000

	// RoomCodeAlphabet excludes I, O, 0, 1 to avoid visual confusion.
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodePrefix   = "BT-"
	RoomCodeLength   = 4

	MaxPowerUps = 3

	// ReconnectionWindow is the grace period a disconnected player has to
	// rebind their seat by rejoining with a matching pseudo.
	ReconnectionWindow = 60 * time.Second

	// TimeSyncInterval is how often the hub pushes time_sync to clients.
	TimeSyncInterval = 5 * time.Second

	// MaxClockSkewMS bounds how far ahead of "now" a claimed answer
	// timestamp is trusted to be.
	MaxClockSkewMS = 2000

	TimelineOverrideRounds = 999
)

// IntroTierDurationsMS are the cumulative listen lengths, from the start
// of the track, unlocked at each intro tier.
var IntroTierDurationsMS = []int{2000, 4000, 6000, 10000, 20000, 30000}

// IntroTierMultipliers scale points earned while answering during tier i.
var IntroTierMultipliers = []float64{5, 3, 2, 1.5, 1, 0.5}

// IntroGuessWindowMS is how long players may answer once a tier unlocks.
const IntroGuessWindowMS = 15000

// LyricsRevealDelay is how long after round start the lyrics blanks are sent.
const LyricsRevealDelay = 10 * time.Second

const (
	LyricsMinBlanks     = 3
	LyricsMaxBlanks     = 6
	LyricsMinWordLength = 3
)

// StealTransferCap bounds how many points a steal power-up can move.
const StealTransferCap = 200
