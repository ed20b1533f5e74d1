package roommanager

import (
	"beattrack/internal/roommodel"
	"beattrack/internal/statssink"
	"beattrack/internal/wsproto"
)

const (
	timerRoundEnd  = "round-end"
	timerReveal    = "reveal"
	timerCountdown = "countdown"
)

// StartGame implements the WAITING -> COUNTDOWN transition, per
// spec.md 4.5.
func (r *Room) StartGame(playerID string) *wsproto.Error {
	if !r.IsHost(playerID) {
		return wsproto.NewError(wsproto.ErrNotHost, "only the host can start the game")
	}
	if r.Phase != roommodel.PhaseWaiting {
		return wsproto.NewError(wsproto.ErrGameAlreadyStarted, "game already started")
	}
	if len(r.ActivePlayers()) < r.Settings.MinPlayers() {
		return wsproto.NewError(wsproto.ErrNotEnoughPlayers, "not enough players to start")
	}

	r.Phase = roommodel.PhaseCountdown
	r.CurrentRound = 0
	if r.trackSource != nil {
		r.trackSource.ResetSessionState()
	}
	r.fallback.ResetSessionState()
	r.broadcastRoomUpdated()
	r.broadcaster.ToRoom(r.Code, wsproto.EventCountdownStart, wsproto.CountdownStartPayload{
		CountdownMS: roommodel.CountdownMS,
	})
	r.scheduleAfter(toDuration(roommodel.CountdownMS), timerCountdown, func(rm *Room) {
		rm.beginRound()
	})
	return nil
}

// beginRound increments the round counter, resets per-round player
// state, and fetches the next track before freezing timing.
func (r *Room) beginRound() {
	if r.Phase != roommodel.PhaseCountdown && r.Phase != roommodel.PhaseReveal {
		return
	}
	r.Phase = roommodel.PhasePlaying
	r.CurrentRound++
	r.Paused = false

	for _, p := range r.Players {
		p.ResetForNewRound()
	}

	r.fetchTrack(func(rm *Room, track roommodel.Track) {
		rm.commitRoundStart(track)
	})
}

func (r *Room) commitRoundStart(track roommodel.Track) {
	if r.Phase != roommodel.PhasePlaying {
		return
	}

	round := roommodel.NewRound(r.CurrentRound, r.Settings.GameMode)
	round.Track = track
	round.StartMs = nowMs()
	round.EndMs = round.StartMs + int64(r.Settings.RoundDurationMs)
	r.Round = round

	payload := wsproto.RoundData{
		RoundNumber:    r.CurrentRound,
		TotalRounds:    r.TotalRounds,
		StartMS:        round.StartMs,
		EndMS:          round.EndMs,
		StartTimestamp: round.StartMs,
		AlbumCover:     track.AlbumCover,
		PreviewURL:     track.PreviewURL,
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventRoundStart, payload)

	switch r.Settings.GameMode {
	case roommodel.ModeIntro:
		r.scheduleIntroTier(0)
	case roommodel.ModeLyrics:
		r.scheduleLyricsReveal()
		r.scheduleAfter(toDuration(r.Settings.RoundDurationMs), timerRoundEnd, func(rm *Room) {
			rm.endRound()
		})
	default:
		r.scheduleAfter(toDuration(r.Settings.RoundDurationMs), timerRoundEnd, func(rm *Room) {
			rm.endRound()
		})
	}
}

// checkEarlyTermination ends the round early once every active,
// non-eliminated, non-spectator player has fully found the track.
func (r *Room) checkEarlyTermination() {
	if r.Round == nil {
		return
	}
	for _, p := range r.ActivePlayers() {
		if !p.FullyFound() {
			return
		}
	}
	r.cancelTimer(timerRoundEnd)
	r.cancelTimer(timerIntroTier)
	r.endRound()
}

// endRound implements the "round end" behavior common to the free-text
// modes (blind-test, elimination, buzzer, intro); timeline and lyrics
// call their own end-of-round paths but converge here for the reveal
// transition.
func (r *Room) endRound() {
	if r.Phase != roommodel.PhasePlaying || r.Round == nil {
		return
	}
	r.Phase = roommodel.PhaseReveal
	r.cancelTimer(timerRoundEnd)
	r.cancelTimer(timerLyricsReveal)

	round := r.Round
	if r.Settings.GameMode == roommodel.ModeBlindTest || r.Settings.GameMode == roommodel.ModeElimination || r.Settings.GameMode == roommodel.ModeBuzzer || r.Settings.GameMode == roommodel.ModeIntro {
		for _, p := range r.ActivePlayers() {
			if !p.FoundArtist && !p.FoundTitle {
				p.Streak = 0
			}
		}
	}

	if r.Settings.GameMode == roommodel.ModeElimination {
		r.applyEliminationLives()
	}

	r.broadcastContextualReaction(round)

	result := wsproto.RoundResult{
		Title:         round.Track.Title,
		Artist:        round.Track.Artist,
		ReleaseYear:   round.Track.ReleaseYear,
		PlayerResults: map[string]int{},
	}
	for pid, pts := range round.PlayerRoundPoints {
		result.PlayerResults[pid] = pts
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventRoundEnd, result)

	r.scheduleRevealEnd()
}

func (r *Room) broadcastContextualReaction(round *roommodel.Round) {
	reaction := "silence"
	anyFound := len(round.PlayersWhoFound) > 0
	anyFast := false
	for _, a := range round.Attempts {
		if a.Correct && a.TimeTakenMs < 3000 {
			anyFast = true
			break
		}
	}
	active := r.ActivePlayers()
	allFound := len(active) > 0
	for _, p := range active {
		if !p.FullyFound() {
			allFound = false
			break
		}
	}

	switch {
	case anyFast:
		reaction = "insane"
	case !anyFound:
		reaction = "silence"
	case allFound:
		reaction = "sweep"
	default:
		return
	}
	r.broadcaster.ToRoom(r.Code, wsproto.EventContextualReact, wsproto.ContextualReactionPayload{Type: reaction})
}

func (r *Room) revealDuration() int {
	if r.Settings.GameMode == roommodel.ModeTimeline {
		return 2000
	}
	return r.Settings.RevealDurationMs
}

func (r *Room) scheduleRevealEnd() {
	r.scheduleAfter(toDuration(r.revealDuration()), timerReveal, func(rm *Room) {
		rm.afterReveal()
	})
}

func (r *Room) afterReveal() {
	if r.Phase != roommodel.PhaseReveal {
		return
	}
	if r.gameShouldEnd() {
		r.endGame()
		return
	}
	r.Phase = roommodel.PhaseCountdown
	r.broadcastRoomUpdated()
	r.broadcaster.ToRoom(r.Code, wsproto.EventCountdownStart, wsproto.CountdownStartPayload{
		CountdownMS: roommodel.CountdownMS,
	})
	r.scheduleAfter(toDuration(roommodel.CountdownMS), timerCountdown, func(rm *Room) {
		rm.beginRound()
	})
}

func (r *Room) gameShouldEnd() bool {
	switch r.Settings.GameMode {
	case roommodel.ModeElimination:
		return len(r.ActivePlayers()) <= 1
	case roommodel.ModeTimeline:
		return r.timelineHasWinner()
	default:
		return r.CurrentRound >= r.TotalRounds
	}
}

// endGame implements "Game end", per spec.md 4.5.
func (r *Room) endGame() {
	r.Phase = roommodel.PhaseFinished
	r.cancelAllTimers()

	finalScores := map[string]int{}
	for _, p := range r.Players {
		finalScores[p.ID] = p.Score
	}
	podium := r.computePodium()

	r.broadcaster.ToRoom(r.Code, wsproto.EventGameOver, wsproto.GameOverPayload{
		FinalScores: finalScores,
		Podium:      podium,
	})

	winnerID := ""
	if len(podium) > 0 {
		winnerID = podium[0]
	}
	r.recordStats(winnerID)
}

func (r *Room) computePodium() []string {
	players := append([]*roommodel.Player(nil), r.Players...)
	sortPlayersByRank(players, r.Settings.GameMode)
	podium := make([]string, 0, 3)
	for i, p := range players {
		if i >= 3 {
			break
		}
		podium = append(podium, p.ID)
	}
	return podium
}

func sortPlayersByRank(players []*roommodel.Player, mode roommodel.GameMode) {
	rank := func(p *roommodel.Player) int {
		if mode == roommodel.ModeTimeline {
			return len(p.TimelineCards)
		}
		return p.Score
	}
	for i := 1; i < len(players); i++ {
		for j := i; j > 0 && rank(players[j]) > rank(players[j-1]); j-- {
			players[j], players[j-1] = players[j-1], players[j]
		}
	}
}

func (r *Room) recordStats(winnerID string) {
	if r.statsSink == nil {
		return
	}
	var results []statssink.PlayerResult
	for _, p := range r.Players {
		if p.UserID == "" {
			continue
		}
		results = append(results, statssink.PlayerResult{
			UserID: p.UserID,
			Won:    p.ID == winnerID,
			Score:  p.Score,
			Streak: p.Streak,
		})
	}
	if len(results) == 0 {
		return
	}
	go func() {
		_ = r.statsSink.RecordGame(backgroundCtx(), results)
	}()
}

// RequestNextRound lets the host skip the remainder of the reveal delay
// and advance immediately, host-only.
func (r *Room) RequestNextRound(playerID string) *wsproto.Error {
	if !r.IsHost(playerID) {
		return wsproto.NewError(wsproto.ErrNotHost, "only the host can skip ahead")
	}
	if r.Phase != roommodel.PhaseReveal {
		return wsproto.NewError(wsproto.ErrGameAlreadyStarted, "not in the reveal phase")
	}
	r.cancelTimer(timerReveal)
	r.afterReveal()
	return nil
}

// ReturnToLobby implements FINISHED -> WAITING with a full game-state
// reset, restricted to the host.
func (r *Room) ReturnToLobby(playerID string) *wsproto.Error {
	if !r.IsHost(playerID) {
		return wsproto.NewError(wsproto.ErrNotHost, "only the host can return to the lobby")
	}
	r.cancelAllTimers()
	r.ResetForNewGame()
	if r.trackSource != nil {
		r.trackSource.ResetSessionState()
	}
	r.fallback.ResetSessionState()
	r.broadcastRoomUpdated()
	return nil
}

func (r *Room) broadcastRoomUpdated() {
	r.broadcaster.ToRoom(r.Code, wsproto.EventRoomUpdated, wsproto.RoomUpdatedPayload{RoomState: r.Room})
}
