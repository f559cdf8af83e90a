package controller

import (
	"time"

	"github.com/phasegames/tempo/internal/domain"
)

const (
	preferredStepUp   = 0.02
	preferredStepDown = 0.05

	toleranceStep        = 0.01
	toleranceFrustration = 0.8
)

// updateBehaviorPatterns tracks when the player plays and drifts their
// preferred difficulty. The preferred value moves independently of the
// emitted difficulty; they only meet through the personalization rule.
func updateBehaviorPatterns(m *domain.PlayerMetrics, gs domain.GameState, performance float64, cfg domain.ControllerConfig, now time.Time) {
	m.PlayTimePatterns[now.Hour()]++

	if performance > highMomentum {
		m.PreferredDifficulty += preferredStepUp
		if m.PreferredDifficulty > cfg.MaxDifficulty {
			m.PreferredDifficulty = cfg.MaxDifficulty
		}
	} else if performance < lowPerformance {
		m.PreferredDifficulty -= preferredStepDown
		if m.PreferredDifficulty < cfg.MinDifficulty {
			m.PreferredDifficulty = cfg.MinDifficulty
		}
	}

	// Staying in the game while highly frustrated reads as tolerance.
	if m.Frustration > toleranceFrustration && gs.IsRunning {
		m.FrustrationTolerance = domain.Clamp01(m.FrustrationTolerance + toleranceStep)
	}
}

// highMomentum is the performance bar above which a player is considered
// comfortable enough to want more challenge.
const highMomentum = 0.6
