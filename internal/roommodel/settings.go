package roommodel

// Settings is a room's configuration. Every numeric field is clamped on
// update per spec.md 3.
type Settings struct {
	TotalRounds           int        `json:"totalRounds"`
	MaxPlayers            int        `json:"maxPlayers"`
	RoundDurationMs       int        `json:"roundDurationMs"`
	RevealDurationMs      int        `json:"revealDurationMs"`
	WrongAnswerCooldownMs int        `json:"wrongAnswerCooldownMs"`
	Genre                 string     `json:"genre"`
	AcceptArtistOnly      bool       `json:"acceptArtistOnly"`
	AcceptTitleOnly       bool       `json:"acceptTitleOnly"`
	GameMode              GameMode   `json:"gameMode"`
	TimelineCardsToWin    int        `json:"timelineCardsToWin"`
	BuzzerTimeMs          int        `json:"buzzerTimeMs"`
	IntroTierMs           int        `json:"introTierMs"`
	EliminationLives      int        `json:"eliminationLives"`
	IsSoloMode            bool       `json:"isSoloMode"`
	EnablePowerUps        bool       `json:"enablePowerUps"`
	EnableTeams           bool       `json:"enableTeams"`
	ProgressiveAudio      bool       `json:"progressiveAudio"`
	Difficulty            Difficulty `json:"difficulty"`
}

// DefaultSettings mirrors the teacher's BlindTestDefaultTime-style
// sensible defaults, generalized across modes.
func DefaultSettings() Settings {
	return Settings{
		TotalRounds:           10,
		MaxPlayers:            8,
		RoundDurationMs:       30000,
		RevealDurationMs:      5000,
		WrongAnswerCooldownMs: 2000,
		GameMode:              ModeBlindTest,
		TimelineCardsToWin:    10,
		BuzzerTimeMs:          8000,
		IntroTierMs:           2000,
		EliminationLives:      3,
		Difficulty:            DifficultyMedium,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp enforces the numeric bounds from spec.md 3 and normalizes enum
// fields to a known value, falling back to the default on garbage input.
func (s *Settings) Clamp() {
	s.TotalRounds = clampInt(s.TotalRounds, 3, 30)
	s.MaxPlayers = clampInt(s.MaxPlayers, 2, 8)
	s.RoundDurationMs = clampInt(s.RoundDurationMs, 5000, 120000)
	s.RevealDurationMs = clampInt(s.RevealDurationMs, 2000, 30000)
	s.WrongAnswerCooldownMs = clampInt(s.WrongAnswerCooldownMs, 500, 10000)
	s.TimelineCardsToWin = clampInt(s.TimelineCardsToWin, 3, 20)
	s.BuzzerTimeMs = clampInt(s.BuzzerTimeMs, 3000, 15000)
	s.IntroTierMs = clampInt(s.IntroTierMs, 1000, 5000)
	s.EliminationLives = clampInt(s.EliminationLives, 1, 5)

	if len(s.Genre) > 50 {
		s.Genre = s.Genre[:50]
	}

	switch s.GameMode {
	case ModeBlindTest, ModeTimeline, ModeBuzzer, ModeElimination, ModeIntro, ModeLyrics:
	default:
		s.GameMode = ModeBlindTest
	}

	switch s.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		s.Difficulty = DifficultyMedium
	}
}

// MinPlayers returns the minimum player count required to start a game,
// per spec.md 4.5: 1 if solo mode, else 2.
func (s Settings) MinPlayers() int {
	if s.IsSoloMode {
		return 1
	}
	return 2
}

// ApplyPartial merges a partial settings update (as decoded from
// update_settings<partial>) onto the receiver, then clamps the result.
// Zero-value fields in patch that were not explicitly set are handled by
// the caller via a map-based partial decode; this helper assumes patch
// already reflects "what the client sent" merged over the current values.
func (s *Settings) ApplyPartial(patch Settings, fields map[string]bool) {
	if fields["totalRounds"] {
		s.TotalRounds = patch.TotalRounds
	}
	if fields["maxPlayers"] {
		s.MaxPlayers = patch.MaxPlayers
	}
	if fields["roundDurationMs"] {
		s.RoundDurationMs = patch.RoundDurationMs
	}
	if fields["revealDurationMs"] {
		s.RevealDurationMs = patch.RevealDurationMs
	}
	if fields["wrongAnswerCooldownMs"] {
		s.WrongAnswerCooldownMs = patch.WrongAnswerCooldownMs
	}
	if fields["genre"] {
		s.Genre = patch.Genre
	}
	if fields["acceptArtistOnly"] {
		s.AcceptArtistOnly = patch.AcceptArtistOnly
	}
	if fields["acceptTitleOnly"] {
		s.AcceptTitleOnly = patch.AcceptTitleOnly
	}
	if fields["gameMode"] {
		s.GameMode = patch.GameMode
	}
	if fields["timelineCardsToWin"] {
		s.TimelineCardsToWin = patch.TimelineCardsToWin
	}
	if fields["buzzerTimeMs"] {
		s.BuzzerTimeMs = patch.BuzzerTimeMs
	}
	if fields["introTierMs"] {
		s.IntroTierMs = patch.IntroTierMs
	}
	if fields["eliminationLives"] {
		s.EliminationLives = patch.EliminationLives
	}
	if fields["isSoloMode"] {
		s.IsSoloMode = patch.IsSoloMode
	}
	if fields["enablePowerUps"] {
		s.EnablePowerUps = patch.EnablePowerUps
	}
	if fields["enableTeams"] {
		s.EnableTeams = patch.EnableTeams
	}
	if fields["progressiveAudio"] {
		s.ProgressiveAudio = patch.ProgressiveAudio
	}
	if fields["difficulty"] {
		s.Difficulty = patch.Difficulty
	}
	s.Clamp()
}
