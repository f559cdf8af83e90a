package controller

import "github.com/phasegames/tempo/internal/domain"

const (
	// Below this elapsed time there is too little signal to score a tick.
	minSignalElapsedMS = 10_000

	neutralPerformance = 0.5

	scoreWeight = 0.4
	timeWeight  = 0.3
	levelWeight = 0.3
)

// performanceRatio scores how well the player is doing this tick relative
// to their own history, in [0,1]. Zero denominators (a player with no
// history yet) substitute a neutral ratio of 1 instead of dividing.
func performanceRatio(gs domain.GameState, m *domain.PlayerMetrics) float64 {
	if gs.TimeElapsed < minSignalElapsedMS {
		return neutralPerformance
	}

	scoreRatio := 1.0
	if m.AverageScore > 0 {
		scoreRatio = gs.Score / m.AverageScore
	}

	timeRatio := 1.0
	if m.AverageTime > 0 {
		timeRatio = m.AverageTime / float64(gs.TimeElapsed)
	}

	levelProgress := float64(gs.CurrentLevel) / float64(gs.CurrentLevel+1)

	return domain.Clamp01(scoreWeight*scoreRatio + timeWeight*timeRatio + levelWeight*levelProgress)
}
