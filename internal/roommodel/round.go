package roommodel

// FoundPart records which half of a blind-test-family answer a player has
// matched so far.
type FoundPart string

const (
	FoundPartNone   FoundPart = ""
	FoundPartArtist FoundPart = "artist"
	FoundPartTitle  FoundPart = "title"
	FoundPartBoth   FoundPart = "both"
)

// Attempt is one append-only log entry for a round, successful or not.
type Attempt struct {
	PlayerID    string  `json:"playerId"`
	Answer      string  `json:"answer"`
	Correct     bool    `json:"correct"`
	TimeTakenMs int     `json:"timeTakenMs"`
	At          int64   `json:"at"`
}

// RoundState is the tagged-variant mode-specific payload of a Round.
// Keeping it as an interface (rather than a flat struct with every
// mode's fields) means a buzzer lock can never leak into a lyrics round,
// and vice versa.
type RoundState interface {
	Mode() GameMode
}

// BlindTestRoundState carries no mode-specific fields beyond the common
// Round fields; free-text answers are matched via the fuzzy matcher.
type BlindTestRoundState struct{}

func (BlindTestRoundState) Mode() GameMode { return ModeBlindTest }

// EliminationRoundState likewise rides on the common Round fields; lives
// and elimination flags live on Player, not here.
type EliminationRoundState struct{}

func (EliminationRoundState) Mode() GameMode { return ModeElimination }

// BuzzerRoundState tracks the single-winner buzzer lock.
type BuzzerRoundState struct {
	LockHolder string
	LockedAt   int64
	Released   bool
}

func (BuzzerRoundState) Mode() GameMode { return ModeBuzzer }

// IntroRoundState tracks the two-phase tier loop.
type IntroRoundState struct {
	Tier  int
	Phase string // "listening" or "guessing"
}

func (IntroRoundState) Mode() GameMode { return ModeIntro }

// TimelineRoundState tracks first-answer-only per player/team and turn
// rotation in team mode.
type TimelineRoundState struct {
	Answered          map[string]bool // playerID or teamID -> answered this round
	CurrentTeamTurnID string
}

func (TimelineRoundState) Mode() GameMode { return ModeTimeline }

// LyricsBlank is one fill-in-the-blank slot within the lyrics text.
type LyricsBlank struct {
	Position int    `json:"position"`
	Answer   string `json:"answer"`
}

// LyricsRoundState tracks the revealed blanks and one submission per
// player.
type LyricsRoundState struct {
	LyricsText string
	Blanks     []LyricsBlank
	Revealed   bool
	Submitted  map[string]bool
}

func (LyricsRoundState) Mode() GameMode { return ModeLyrics }

// Round is the per-room, single-instance snapshot of the track currently
// being guessed.
type Round struct {
	Number            int
	Track             Track
	StartMs           int64
	EndMs             int64
	PlayersWhoFound   []string // insertion order == rank order
	PlayerPositions   map[string]int
	PlayerRoundPoints map[string]int
	Attempts          []Attempt
	State             RoundState

	// Pause bookkeeping; RemainingMs is only meaningful while Paused.
	Paused      bool
	RemainingMs int64
}

// NewRound creates an empty round shell for the given mode; callers fill
// in Track/StartMs/EndMs once the track is fetched.
func NewRound(number int, mode GameMode) *Round {
	r := &Round{
		Number:            number,
		PlayerPositions:   make(map[string]int),
		PlayerRoundPoints: make(map[string]int),
	}
	switch mode {
	case ModeBuzzer:
		r.State = &BuzzerRoundState{}
	case ModeIntro:
		r.State = &IntroRoundState{}
	case ModeTimeline:
		r.State = &TimelineRoundState{Answered: make(map[string]bool)}
	case ModeLyrics:
		r.State = &LyricsRoundState{Submitted: make(map[string]bool)}
	case ModeElimination:
		r.State = &EliminationRoundState{}
	default:
		r.State = &BlindTestRoundState{}
	}
	return r
}

// Rank returns the 1-based position a newly-fully-found player receives.
func (r *Round) Rank() int {
	return len(r.PlayersWhoFound) + 1
}

// MarkFound records a player becoming fully-found and assigns them the
// next rank in arrival order.
func (r *Round) MarkFound(playerID string) int {
	pos := r.Rank()
	r.PlayersWhoFound = append(r.PlayersWhoFound, playerID)
	r.PlayerPositions[playerID] = pos
	return pos
}
