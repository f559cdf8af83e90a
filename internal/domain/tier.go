package domain

type PlayerTier string

const (
	TierExpert   PlayerTier = "expert"
	TierHardcore PlayerTier = "hardcore"
	TierRegular  PlayerTier = "regular"
	TierCasual   PlayerTier = "casual"
	TierBeginner PlayerTier = "beginner"
)

const regularPlayTimeMS = 3_600_000 // one hour

// ClassifyPlayer maps accumulated metrics to a skill tier. Rules are
// ordered most-specific first; the first match wins. Classification is a
// pure function of the metrics, so unchanged metrics always yield the same
// tier.
func ClassifyPlayer(m *PlayerMetrics) PlayerTier {
	switch {
	case m.AverageScore > 1000 && m.CompletionRate > 0.8 && m.SessionCount > 50:
		return TierExpert
	case m.AverageScore > 600 && m.CompletionRate > 0.6 && m.SessionCount > 20 && m.ChallengeSeeking > 0.7:
		return TierHardcore
	case m.AverageScore > 300 && m.SessionCount > 10 && m.TotalPlayTime > regularPlayTimeMS:
		return TierRegular
	case m.SessionCount > 5 && m.FrustrationTolerance < 0.5:
		return TierCasual
	default:
		return TierBeginner
	}
}

// DifficultyCurve gives the personalized target shape for a tier: the
// target starts at Base and grows by Growth per level up to Max.
type DifficultyCurve struct {
	Base   float64 `json:"base"`
	Growth float64 `json:"growth"`
	Max    float64 `json:"max"`
}

var DifficultyCurves = map[PlayerTier]DifficultyCurve{
	TierBeginner: {Base: 0.3, Growth: 0.05, Max: 2.0},
	TierCasual:   {Base: 0.5, Growth: 0.08, Max: 3.0},
	TierRegular:  {Base: 0.8, Growth: 0.12, Max: 5.0},
	TierHardcore: {Base: 1.2, Growth: 0.18, Max: 8.0},
	TierExpert:   {Base: 2.0, Growth: 0.15, Max: 10.0},
}

func CurveFor(tier PlayerTier) DifficultyCurve {
	if c, ok := DifficultyCurves[tier]; ok {
		return c
	}
	return DifficultyCurves[TierBeginner]
}

// TargetFor returns the curve's difficulty target at the given level.
func (c DifficultyCurve) TargetFor(level int) float64 {
	target := c.Base + float64(level)*c.Growth
	if target > c.Max {
		return c.Max
	}
	return target
}

// RecommendationLevelCap bounds the session-count level proxy used by
// difficulty recommendations.
const RecommendationLevelCap = 50

func AllTiers() []PlayerTier {
	return []PlayerTier{TierExpert, TierHardcore, TierRegular, TierCasual, TierBeginner}
}

func ValidTier(t string) bool {
	switch PlayerTier(t) {
	case TierExpert, TierHardcore, TierRegular, TierCasual, TierBeginner:
		return true
	}
	return false
}
