package controller

import (
	"fmt"
	"math"
	"strings"

	"github.com/phasegames/tempo/internal/domain"
)

const (
	gapBand = 0.1

	lowEngagement      = 0.3
	highEngagement     = 0.8
	engagedCutback     = 0.1
	engagedBoost       = 0.05
	flowPerformance    = 0.7
	lowEngagementConf  = 0.6
	highEngagementConf = 0.7

	emergencyFrustration = 0.8
	emergencyCutback     = 0.2
	emergencyConfidence  = 0.9

	personalizationGain  = 0.1
	personalizationNote  = 0.05
	personalizationConf  = 0.8
	trendThresholdUp     = 0.1
	trendThresholdDown   = -0.1
	trendBoost           = 0.05
	trendCutback         = 0.03
)

// fusion is the combined output of the adjustment rules.
type fusion struct {
	delta      float64
	reason     string
	confidence float64
}

// fuseAdjustment runs the rule pipeline over this tick's signals. Deltas
// accumulate as a sum; confidence is the running maximum of the candidates,
// so it reports the single most confident rule. The emergency rule is the
// one exception on the reason side: its message replaces everything
// appended before it.
func fuseAdjustment(m *domain.PlayerMetrics, gs domain.GameState, performance float64, cfg domain.ControllerConfig) fusion {
	var (
		delta      float64
		confidence float64
		reasons    []string
	)

	// 1. Performance gap: steer toward the target success rate.
	gap := cfg.TargetSuccessRate - performance
	if math.Abs(gap) > gapBand {
		delta += -gap * cfg.AdaptationRate
		confidence = math.Max(confidence, math.Min(0.9, 0.3+math.Abs(gap)))
		if gap < 0 {
			reasons = append(reasons, "performance above target")
		} else {
			reasons = append(reasons, "performance below target")
		}
	}

	// 2. Engagement.
	if m.Engagement < lowEngagement {
		delta -= engagedCutback
		confidence = math.Max(confidence, lowEngagementConf)
		reasons = append(reasons, "low engagement")
	} else if m.Engagement > highEngagement && performance > flowPerformance {
		delta += engagedBoost
		confidence = math.Max(confidence, highEngagementConf)
		reasons = append(reasons, "high engagement")
	}

	// 3. Emergency frustration override.
	if cfg.EmergencyAdjustment && m.Frustration > emergencyFrustration {
		delta -= emergencyCutback
		confidence = emergencyConfidence
		reasons = []string{"emergency frustration relief"}
	}

	// 4. Personalization toward the tier curve.
	if cfg.PersonalizedAdjustment {
		tier := domain.ClassifyPlayer(m)
		target := domain.CurveFor(tier).TargetFor(gs.CurrentLevel)
		personal := (target - gs.Difficulty) * personalizationGain
		delta += personal
		if math.Abs(personal) > personalizationNote {
			confidence = math.Max(confidence, personalizationConf)
			reasons = append(reasons, fmt.Sprintf("personalized for %s", tier))
		}
	}

	// 5. Skill trend.
	trend := skillTrend(m.LearningCurve)
	if trend > trendThresholdUp {
		delta += trendBoost
		reasons = append(reasons, "upward skill trend")
	} else if trend < trendThresholdDown {
		delta -= trendCutback
		reasons = append(reasons, "downward skill trend")
	}

	reason := strings.Join(reasons, "; ")
	if reason == "" {
		reason = "stable"
	}
	return fusion{delta: delta, reason: reason, confidence: confidence}
}
