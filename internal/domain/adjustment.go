package domain

import "time"

// AdjustmentHistoryCap bounds the per-player adjustment log; oldest entries
// are evicted first.
const AdjustmentHistoryCap = 50

// AdjustmentMetrics is the snapshot of the signals that produced an
// adjustment.
type AdjustmentMetrics struct {
	SuccessRate      float64 `json:"success_rate"`
	AverageTime      float64 `json:"avg_time"`
	EngagementScore  float64 `json:"engagement_score"`
	FrustrationLevel float64 `json:"frustration_level"`
}

// DifficultyAdjustment records one emitted difficulty change. Adjustment is
// the signed raw delta before smoothing; Reason traces which rules fired.
// Confidence is the running maximum across contributing rules, not a sum:
// it reports the most confident single rule, not how many rules fired.
type DifficultyAdjustment struct {
	PreviousDifficulty float64           `json:"previous_difficulty"`
	NewDifficulty      float64           `json:"new_difficulty"`
	Adjustment         float64           `json:"adjustment"`
	Reason             string            `json:"reason"`
	Confidence         float64           `json:"confidence"`
	Timestamp          time.Time         `json:"timestamp"`
	Metrics            AdjustmentMetrics `json:"metrics"`
}
