package domain

import "time"

const (
	// LearningCurveCap bounds the recent-score trace; oldest entries are
	// evicted first.
	LearningCurveCap = 20

	defaultEngagement = 0.5
	defaultConfidence = 0.5
)

// PlayerMetrics is the mutable per-player model. One instance exists per
// player id, created lazily on first update. All probability-like scalars
// stay in [0,1]; Clamp enforces that after every mutation.
type PlayerMetrics struct {
	// Aggregate performance.
	AverageScore   float64 `json:"average_score"`
	CompletionRate float64 `json:"completion_rate"`
	AverageTime    float64 `json:"average_time"`
	MistakeRate    float64 `json:"mistake_rate"`
	QuitRate       float64 `json:"quit_rate"`

	// Engagement.
	TotalPlayTime int64     `json:"total_play_time"`
	SessionCount  int       `json:"session_count"`
	LastPlayed    time.Time `json:"last_played"`
	StreakDays    int       `json:"streak_days"`

	// Skill trace.
	LearningCurve     []float64 `json:"learning_curve"`
	ConsistencyRating float64   `json:"consistency_rating"`
	ImprovementRate   float64   `json:"improvement_rate"`
	PlateauDetected   bool      `json:"plateau_detected"`

	// Behavior.
	PreferredDifficulty  float64         `json:"preferred_difficulty"`
	PreferredGameModes   map[string]bool `json:"preferred_game_modes"`
	PlayTimePatterns     [24]int         `json:"play_time_patterns"`
	FrustrationTolerance float64         `json:"frustration_tolerance"`
	ChallengeSeeking     float64         `json:"challenge_seeking"`

	// Live session.
	CurrentStreak    int       `json:"current_streak"`
	CurrentMistakes  int       `json:"current_mistakes"`
	CurrentScore     float64   `json:"current_score"`
	CurrentSessionID string    `json:"current_session_id"`
	SessionStartTime time.Time `json:"session_start_time"`
	LastActionTime   time.Time `json:"last_action_time"`

	// Emotional state.
	Frustration float64 `json:"estimated_frustration"`
	Engagement  float64 `json:"estimated_engagement"`
	Confidence  float64 `json:"estimated_confidence"`
}

// NewPlayerMetrics returns the lazily-initialized model for a first-seen
// player. The initial preferred difficulty follows whatever the game loop
// is currently running.
func NewPlayerMetrics(initialDifficulty float64) *PlayerMetrics {
	return &PlayerMetrics{
		PreferredDifficulty: initialDifficulty,
		PreferredGameModes:  make(map[string]bool),
		Frustration:         0,
		Engagement:          defaultEngagement,
		Confidence:          defaultConfidence,
	}
}

// PushScore appends a score to the learning curve, evicting the oldest
// entry once the cap is reached.
func (m *PlayerMetrics) PushScore(score float64) {
	m.LearningCurve = append(m.LearningCurve, score)
	if len(m.LearningCurve) > LearningCurveCap {
		m.LearningCurve = m.LearningCurve[len(m.LearningCurve)-LearningCurveCap:]
	}
}

// Clamp restores every bounded scalar to its documented range.
func (m *PlayerMetrics) Clamp() {
	m.CompletionRate = Clamp01(m.CompletionRate)
	m.MistakeRate = Clamp01(m.MistakeRate)
	m.QuitRate = Clamp01(m.QuitRate)
	m.ConsistencyRating = Clamp01(m.ConsistencyRating)
	m.FrustrationTolerance = Clamp01(m.FrustrationTolerance)
	m.ChallengeSeeking = Clamp01(m.ChallengeSeeking)
	m.Frustration = Clamp01(m.Frustration)
	m.Engagement = Clamp01(m.Engagement)
	m.Confidence = Clamp01(m.Confidence)
	if m.AverageScore < 0 {
		m.AverageScore = 0
	}
	if m.AverageTime < 0 {
		m.AverageTime = 0
	}
	if m.TotalPlayTime < 0 {
		m.TotalPlayTime = 0
	}
	for i, n := range m.PlayTimePatterns {
		if n < 0 {
			m.PlayTimePatterns[i] = 0
		}
	}
}

// Normalize prepares an externally supplied model (import path) so that it
// satisfies the same invariants as an internally built one: scalars are
// clamped and capped sequences truncated. The payload itself is accepted
// as-is otherwise.
func (m *PlayerMetrics) Normalize() {
	if m.PreferredGameModes == nil {
		m.PreferredGameModes = make(map[string]bool)
	}
	if len(m.LearningCurve) > LearningCurveCap {
		m.LearningCurve = m.LearningCurve[len(m.LearningCurve)-LearningCurveCap:]
	}
	if m.SessionCount < 0 {
		m.SessionCount = 0
	}
	if m.StreakDays < 0 {
		m.StreakDays = 0
	}
	m.Clamp()
}

// Clone returns a deep copy so callers never hold a mutable reference into
// the store.
func (m *PlayerMetrics) Clone() *PlayerMetrics {
	out := *m
	out.LearningCurve = append([]float64(nil), m.LearningCurve...)
	out.PreferredGameModes = make(map[string]bool, len(m.PreferredGameModes))
	for k, v := range m.PreferredGameModes {
		out.PreferredGameModes[k] = v
	}
	return &out
}

// MetricsPatch is a shallow partial update for SetPlayerMetrics. Nil fields
// keep the current value. Unlike an import, a patch never creates a player.
type MetricsPatch struct {
	AverageScore         *float64  `json:"average_score,omitempty"`
	CompletionRate       *float64  `json:"completion_rate,omitempty"`
	AverageTime          *float64  `json:"average_time,omitempty"`
	MistakeRate          *float64  `json:"mistake_rate,omitempty"`
	QuitRate             *float64  `json:"quit_rate,omitempty"`
	TotalPlayTime        *int64    `json:"total_play_time,omitempty"`
	SessionCount         *int      `json:"session_count,omitempty"`
	StreakDays           *int      `json:"streak_days,omitempty"`
	LearningCurve        []float64 `json:"learning_curve,omitempty"`
	ConsistencyRating    *float64  `json:"consistency_rating,omitempty"`
	ImprovementRate      *float64  `json:"improvement_rate,omitempty"`
	PreferredDifficulty  *float64  `json:"preferred_difficulty,omitempty"`
	PreferredGameModes   []string  `json:"preferred_game_modes,omitempty"`
	FrustrationTolerance *float64  `json:"frustration_tolerance,omitempty"`
	ChallengeSeeking     *float64  `json:"challenge_seeking,omitempty"`
	Frustration          *float64  `json:"estimated_frustration,omitempty"`
	Engagement           *float64  `json:"estimated_engagement,omitempty"`
	Confidence           *float64  `json:"estimated_confidence,omitempty"`
}

// ApplyPatch merges the patch's non-nil fields into the model and re-clamps.
func (m *PlayerMetrics) ApplyPatch(p MetricsPatch) {
	if p.AverageScore != nil {
		m.AverageScore = *p.AverageScore
	}
	if p.CompletionRate != nil {
		m.CompletionRate = *p.CompletionRate
	}
	if p.AverageTime != nil {
		m.AverageTime = *p.AverageTime
	}
	if p.MistakeRate != nil {
		m.MistakeRate = *p.MistakeRate
	}
	if p.QuitRate != nil {
		m.QuitRate = *p.QuitRate
	}
	if p.TotalPlayTime != nil {
		m.TotalPlayTime = *p.TotalPlayTime
	}
	if p.SessionCount != nil {
		m.SessionCount = *p.SessionCount
	}
	if p.StreakDays != nil {
		m.StreakDays = *p.StreakDays
	}
	if p.LearningCurve != nil {
		m.LearningCurve = append([]float64(nil), p.LearningCurve...)
		if len(m.LearningCurve) > LearningCurveCap {
			m.LearningCurve = m.LearningCurve[len(m.LearningCurve)-LearningCurveCap:]
		}
	}
	if p.ConsistencyRating != nil {
		m.ConsistencyRating = *p.ConsistencyRating
	}
	if p.ImprovementRate != nil {
		m.ImprovementRate = *p.ImprovementRate
	}
	if p.PreferredDifficulty != nil {
		m.PreferredDifficulty = *p.PreferredDifficulty
	}
	if p.PreferredGameModes != nil {
		m.PreferredGameModes = make(map[string]bool, len(p.PreferredGameModes))
		for _, mode := range p.PreferredGameModes {
			m.PreferredGameModes[mode] = true
		}
	}
	if p.FrustrationTolerance != nil {
		m.FrustrationTolerance = *p.FrustrationTolerance
	}
	if p.ChallengeSeeking != nil {
		m.ChallengeSeeking = *p.ChallengeSeeking
	}
	if p.Frustration != nil {
		m.Frustration = *p.Frustration
	}
	if p.Engagement != nil {
		m.Engagement = *p.Engagement
	}
	if p.Confidence != nil {
		m.Confidence = *p.Confidence
	}
	m.Clamp()
}
