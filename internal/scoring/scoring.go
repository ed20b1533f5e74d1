// Package scoring implements the pure scoring function that turns
// (elapsed, duration, streak, position) into itemized points.
package scoring

// Breakdown is the itemized score for a single answer.
type Breakdown struct {
	Base         int `json:"base"`
	TimeBonus    int `json:"timeBonus"`
	StreakBonus  int `json:"streakBonus"`
	PositionBonus int `json:"positionBonus"`
	Total        int `json:"total"`
}

var streakBonusTable = [6]int{0, 0, 100, 200, 300, 500}

// Calculate is a pure function of (elapsedMs, durationMs, streak,
// position) -> itemized points, per spec.md 4.2.
func Calculate(elapsedMs, durationMs, streak, position int) Breakdown {
	base := 1000

	timeBonus := 0
	if durationMs > 0 && elapsedMs < durationMs {
		timeBonus = ((durationMs - elapsedMs) * 2 * 1000) / durationMs
	}
	if timeBonus < 0 {
		timeBonus = 0
	}

	streakIdx := streak
	if streakIdx > 5 {
		streakIdx = 5
	}
	if streakIdx < 0 {
		streakIdx = 0
	}
	streakBonus := streakBonusTable[streakIdx]

	positionBonus := 0
	switch position {
	case 1:
		positionBonus = 200
	case 2:
		positionBonus = 100
	case 3:
		positionBonus = 50
	}

	total := base + timeBonus + streakBonus + positionBonus
	return Breakdown{
		Base:          base,
		TimeBonus:     timeBonus,
		StreakBonus:   streakBonus,
		PositionBonus: positionBonus,
		Total:         total,
	}
}
