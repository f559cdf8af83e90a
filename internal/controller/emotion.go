package controller

import (
	"time"

	"github.com/phasegames/tempo/internal/domain"
)

const (
	lowPerformance  = 0.3
	highPerformance = 0.8

	frustrationStepUp     = 0.1
	frustrationStepDown   = 0.05
	frustrationIdleStep   = 0.05
	frustrationIdleWindow = 10 * time.Second

	engagementStepUp     = 0.1
	engagementStepDown   = 0.2
	engagementActiveSpan = 2 * time.Second
	engagementIdleWindow = 15 * time.Second
	engagedPerformance   = 0.4

	confidenceStepUp   = 0.05
	confidenceStepDown = 0.1
	confidenceWindow   = 5
	confidenceSlump    = 0.7
)

// updateEmotionalState advances the frustration, engagement and confidence
// scalars from this tick's performance and the inactivity gap since the
// previous tick. Rules are additive in a fixed order; each scalar is
// clamped after its own rules run.
func updateEmotionalState(m *domain.PlayerMetrics, performance float64, now time.Time) {
	var inactivity time.Duration
	if !m.LastActionTime.IsZero() {
		inactivity = now.Sub(m.LastActionTime)
	}

	// Frustration.
	if performance < lowPerformance {
		m.Frustration += frustrationStepUp
	} else if performance > highPerformance {
		m.Frustration -= frustrationStepDown
	}
	if inactivity > frustrationIdleWindow {
		m.Frustration += frustrationIdleStep
	}
	m.Frustration = domain.Clamp01(m.Frustration)

	// Engagement.
	if inactivity < engagementActiveSpan && performance > engagedPerformance {
		m.Engagement += engagementStepUp
	} else if inactivity > engagementIdleWindow {
		m.Engagement -= engagementStepDown
	}
	m.Engagement = domain.Clamp01(m.Engagement)

	// Confidence needs more than 2 of the most recent 5 curve samples.
	recent := recentScores(m.LearningCurve, confidenceWindow)
	if len(recent) > 2 {
		avgRecent := mean(recent)
		trend := recent[len(recent)-1] - recent[0]
		switch {
		case avgRecent > m.AverageScore && trend > 0:
			m.Confidence += confidenceStepUp
		case avgRecent < m.AverageScore*confidenceSlump:
			m.Confidence -= confidenceStepDown
		}
		m.Confidence = domain.Clamp01(m.Confidence)
	}
}

func recentScores(curve []float64, n int) []float64 {
	if len(curve) <= n {
		return curve
	}
	return curve[len(curve)-n:]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
