package controller

import (
	"math"
	"time"

	"github.com/phasegames/tempo/internal/domain"
)

const (
	averageTimeAlpha = 0.3

	plateauBand       = 0.02
	plateauMinSamples = 10

	streakResetGap = 48 * time.Hour
)

// recordTick folds one game-state tick into the player's aggregates:
// session boundaries, the learning curve, rolling averages and streaks.
func recordTick(m *domain.PlayerMetrics, gs domain.GameState, now time.Time) {
	if gs.SessionID != m.CurrentSessionID || m.SessionStartTime.IsZero() {
		m.SessionCount++
		m.CurrentSessionID = gs.SessionID
		m.SessionStartTime = now
		m.CurrentStreak = 0
		m.CurrentMistakes = 0
		m.CurrentScore = 0
	} else if !m.LastActionTime.IsZero() {
		m.TotalPlayTime += now.Sub(m.LastActionTime).Milliseconds()
	}

	// A score regression within a session counts as a mistake.
	if gs.Score < m.CurrentScore {
		m.CurrentMistakes++
		m.CurrentStreak = 0
	} else {
		m.CurrentStreak++
	}
	m.CurrentScore = gs.Score

	m.PushScore(gs.Score)
	m.AverageScore = mean(m.LearningCurve)

	if m.AverageTime == 0 {
		m.AverageTime = float64(gs.TimeElapsed)
	} else {
		m.AverageTime = m.AverageTime*(1-averageTimeAlpha) + float64(gs.TimeElapsed)*averageTimeAlpha
	}

	trend := skillTrend(m.LearningCurve)
	m.ImprovementRate = trend
	m.PlateauDetected = len(m.LearningCurve) >= plateauMinSamples && math.Abs(trend) < plateauBand
	m.ConsistencyRating = consistencyRating(m.LearningCurve, m.ConsistencyRating)

	updateDayStreak(m, now)
	m.LastPlayed = now
	m.LastActionTime = now
}

func updateDayStreak(m *domain.PlayerMetrics, now time.Time) {
	if m.LastPlayed.IsZero() {
		m.StreakDays = 1
		return
	}
	gap := now.Sub(m.LastPlayed)
	switch {
	case gap > streakResetGap:
		m.StreakDays = 1
	case now.YearDay() != m.LastPlayed.YearDay() || now.Year() != m.LastPlayed.Year():
		m.StreakDays++
	}
}
