package controller

import (
	"math"

	"github.com/phasegames/tempo/internal/domain"
)

// Read-only heuristics over a player model. Nothing here mutates state;
// the facade hands these functions a copy.

const (
	difficultyPenaltySlope = 0.2
	improvementLift        = 0.1
	confidenceFloor        = 0.7
	confidenceLift         = 0.3

	frustrationDrag  = 0.5
	modeVarietyBonus = 0.05
	streakBonusStep  = 0.02
	streakBonusCap   = 0.2

	consistencyMinSamples  = 3
	defaultConsistency     = 0.5
	normalizedScoreCeiling = 1000
)

// predictPerformance estimates the success chance at a hypothetical
// difficulty from completion history, improvement and confidence.
func predictPerformance(m *domain.PlayerMetrics, difficulty float64) float64 {
	difficultyPenalty := math.Max(0, 1-(difficulty-1)*difficultyPenaltySlope)
	p := m.CompletionRate *
		difficultyPenalty *
		(m.ImprovementRate*improvementLift + 1) *
		(m.Confidence*confidenceLift + confidenceFloor)
	return domain.Clamp01(p)
}

// engagementForecast projects near-term engagement: current engagement
// dragged down by frustration, lifted by mode variety and the day streak.
func engagementForecast(m *domain.PlayerMetrics) float64 {
	f := m.Engagement*(1-m.Frustration*frustrationDrag) +
		modeVarietyBonus*float64(len(m.PreferredGameModes)) +
		math.Min(streakBonusCap, float64(m.StreakDays)*streakBonusStep)
	return domain.Clamp01(f)
}

// SkillAssessment is the query-side skill summary.
type SkillAssessment struct {
	SkillLevel      float64  `json:"skill_level"`
	Consistency     float64  `json:"consistency"`
	Potential       float64  `json:"potential"`
	Category        string   `json:"category"`
	Recommendations []string `json:"recommendations"`
}

func analyzeSkill(m *domain.PlayerMetrics) SkillAssessment {
	consistency := consistencyRating(m.LearningCurve, defaultConsistency)
	normalizedScore := math.Min(1, m.AverageScore/normalizedScoreCeiling)

	skillLevel := domain.Clamp01(0.4*normalizedScore + 0.3*m.CompletionRate + 0.3*(1-consistency))
	potential := domain.Clamp01(0.4*m.ImprovementRate + 0.2*m.Engagement +
		0.2*m.FrustrationTolerance + 0.2*m.ChallengeSeeking)

	return SkillAssessment{
		SkillLevel:      skillLevel,
		Consistency:     consistency,
		Potential:       potential,
		Category:        skillCategory(skillLevel),
		Recommendations: skillRecommendations(consistency, potential, m),
	}
}

func skillCategory(level float64) string {
	switch {
	case level >= 0.8:
		return "expert"
	case level >= 0.6:
		return "advanced"
	case level >= 0.4:
		return "intermediate"
	case level >= 0.2:
		return "developing"
	default:
		return "novice"
	}
}

func skillRecommendations(consistency, potential float64, m *domain.PlayerMetrics) []string {
	var recs []string
	if potential > 0.7 {
		recs = append(recs, "ready for a higher difficulty band")
	}
	if consistency < 0.3 {
		recs = append(recs, "shorter sessions may improve consistency")
	}
	if m.ImprovementRate < 0 {
		recs = append(recs, "revisit earlier levels to rebuild fundamentals")
	}
	if m.FrustrationTolerance < 0.3 {
		recs = append(recs, "keep difficulty ramps gradual")
	}
	if len(recs) == 0 {
		recs = append(recs, "maintain current pacing")
	}
	return recs
}

// consistencyRating is 1 minus the coefficient of variation of the curve,
// clamped to [0,1]. With fewer than three samples the fallback is returned.
func consistencyRating(curve []float64, fallback float64) float64 {
	if len(curve) < consistencyMinSamples {
		return fallback
	}
	avg := mean(curve)
	if avg == 0 {
		return fallback
	}
	var sq float64
	for _, v := range curve {
		d := v - avg
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(curve)))
	return domain.Clamp01(1 - stddev/avg)
}
