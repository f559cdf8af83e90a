package controller

import (
	"errors"
	"sync"
	"time"

	"github.com/phasegames/tempo/internal/domain"
	"go.uber.org/zap"
)

var ErrMissingUserID = errors.New("game state is missing a user id")

// Sentinel defaults returned for players the controller has never seen.
const (
	defaultRecommendation = 1.0
	defaultForecast       = 0.5
	unratedCategory       = "unrated"
)

// Controller owns the per-player models and the adjustment history and
// exposes the full tuning surface. Callers only ever receive copies of the
// internal state.
type Controller struct {
	cfgMu sync.RWMutex
	cfg   domain.ControllerConfig

	store  *metricsStore
	logger *zap.Logger

	// now is swappable so inactivity windows and hour buckets are testable.
	now func() time.Time
}

func New(cfg domain.ControllerConfig, logger *zap.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg,
		store:  newMetricsStore(),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Config returns a copy of the active tuning.
func (c *Controller) Config() domain.ControllerConfig {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.cfg
}

// UpdateConfig merges the patch into the active config. The merged result
// must still validate or nothing changes.
func (c *Controller) UpdateConfig(p domain.ConfigPatch) error {
	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()
	merged := c.cfg.Merged(p)
	if err := merged.Validate(); err != nil {
		return err
	}
	c.cfg = merged
	c.logger.Info("controller config updated",
		zap.Float64("target_success_rate", merged.TargetSuccessRate),
		zap.Float64("adaptation_rate", merged.AdaptationRate),
		zap.Float64("min_difficulty", merged.MinDifficulty),
		zap.Float64("max_difficulty", merged.MaxDifficulty))
	return nil
}

// Update folds one tick into the player's model and returns the new
// difficulty. The emitted value always lies within the configured bounds;
// deltas inside the deadband return the previous difficulty unchanged.
func (c *Controller) Update(gs domain.GameState) (float64, error) {
	if gs.UserID == "" {
		return 0, ErrMissingUserID
	}
	cfg := c.Config()
	now := c.now()

	entry := c.store.getOrCreate(gs.UserID, func() *domain.PlayerMetrics {
		return domain.NewPlayerMetrics(domain.Clamp(gs.Difficulty, cfg.MinDifficulty, cfg.MaxDifficulty))
	})

	entry.mu.Lock()
	defer entry.mu.Unlock()
	m := entry.metrics

	performance := performanceRatio(gs, m)
	updateEmotionalState(m, performance, now)
	updateBehaviorPatterns(m, gs, performance, cfg, now)
	recordTick(m, gs, now)

	result := fuseAdjustment(m, gs, performance, cfg)
	next := applyAdjustment(gs.Difficulty, result.delta, cfg)
	m.Clamp()

	adj := domain.DifficultyAdjustment{
		PreviousDifficulty: gs.Difficulty,
		NewDifficulty:      next,
		Adjustment:         result.delta,
		Reason:             result.reason,
		Confidence:         result.confidence,
		Timestamp:          now,
		Metrics: domain.AdjustmentMetrics{
			SuccessRate:      performance,
			AverageTime:      m.AverageTime,
			EngagementScore:  m.Engagement,
			FrustrationLevel: m.Frustration,
		},
	}
	entry.appendHistory(adj)

	c.logger.Debug("difficulty adjusted",
		zap.String("player_id", gs.UserID),
		zap.Float64("previous", gs.Difficulty),
		zap.Float64("new", next),
		zap.Float64("raw_delta", result.delta),
		zap.Float64("confidence", result.confidence),
		zap.String("reason", result.reason))

	return next, nil
}

// GetPlayerMetrics returns a copy of the model, signalling absence
// explicitly instead of a sentinel.
func (c *Controller) GetPlayerMetrics(id string) (*domain.PlayerMetrics, bool) {
	entry, ok := c.store.get(id)
	if !ok {
		return nil, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.metrics.Clone(), true
}

// GetAdjustmentHistory returns a copy of the adjustment log, newest last.
// Unknown players yield an empty history.
func (c *Controller) GetAdjustmentHistory(id string) []domain.DifficultyAdjustment {
	entry, ok := c.store.get(id)
	if !ok {
		return nil
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return append([]domain.DifficultyAdjustment(nil), entry.history...)
}

// ApplyMetricsPatch shallow-merges the patch into an existing player.
// Unlike an import it never creates one; the return reports whether a
// player was found.
func (c *Controller) ApplyMetricsPatch(id string, p domain.MetricsPatch) bool {
	entry, ok := c.store.get(id)
	if !ok {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.metrics.ApplyPatch(p)
	return true
}

// GetRecommendedDifficulty looks up the player's tier curve using a capped
// session count as the level proxy. Unknown players get a neutral 1.0.
func (c *Controller) GetRecommendedDifficulty(id string) float64 {
	entry, ok := c.store.get(id)
	if !ok {
		return defaultRecommendation
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	m := entry.metrics

	level := m.SessionCount
	if level > domain.RecommendationLevelCap {
		level = domain.RecommendationLevelCap
	}
	return domain.CurveFor(domain.ClassifyPlayer(m)).TargetFor(level)
}

// PredictPerformance estimates the player's success chance at the given
// difficulty without touching their state.
func (c *Controller) PredictPerformance(id string, difficulty float64) float64 {
	entry, ok := c.store.get(id)
	if !ok {
		return defaultForecast
	}
	entry.mu.Lock()
	m := entry.metrics.Clone()
	entry.mu.Unlock()
	return predictPerformance(m, difficulty)
}

// GetEngagementForecast projects near-term engagement for the player.
func (c *Controller) GetEngagementForecast(id string) float64 {
	entry, ok := c.store.get(id)
	if !ok {
		return defaultForecast
	}
	entry.mu.Lock()
	m := entry.metrics.Clone()
	entry.mu.Unlock()
	return engagementForecast(m)
}

// AnalyzePlayerSkill produces the query-side skill summary.
func (c *Controller) AnalyzePlayerSkill(id string) SkillAssessment {
	entry, ok := c.store.get(id)
	if !ok {
		return SkillAssessment{Category: unratedCategory}
	}
	entry.mu.Lock()
	m := entry.metrics.Clone()
	entry.mu.Unlock()
	return analyzeSkill(m)
}

// ExportPlayerData snapshots everything the controller knows about a
// player. Importing the result restores an equivalent model.
func (c *Controller) ExportPlayerData(id string) (domain.PlayerExport, bool) {
	entry, ok := c.store.get(id)
	if !ok {
		return domain.PlayerExport{}, false
	}
	entry.mu.Lock()
	m := entry.metrics.Clone()
	history := append([]domain.DifficultyAdjustment(nil), entry.history...)
	entry.mu.Unlock()

	return domain.PlayerExport{
		PlayerID:          id,
		Metrics:           *m,
		AdjustmentHistory: history,
		PlayerType:        domain.ClassifyPlayer(m),
		Recommendations:   analyzeSkill(m).Recommendations,
		ExportedAt:        c.now(),
	}, true
}

// ImportPlayerData overwrites the player's model and history wholesale,
// creating the player if absent. This is deliberately not a merge; partial
// updates go through ApplyMetricsPatch.
func (c *Controller) ImportPlayerData(id string, data domain.PlayerExport) {
	metrics := data.Metrics.Clone()
	metrics.Normalize()

	history := append([]domain.DifficultyAdjustment(nil), data.AdjustmentHistory...)
	if len(history) > domain.AdjustmentHistoryCap {
		history = history[len(history)-domain.AdjustmentHistoryCap:]
	}

	c.store.put(id, &playerEntry{metrics: metrics, history: history})
	c.logger.Debug("player data imported",
		zap.String("player_id", id),
		zap.Int("history_len", len(history)))
}

// Reset removes a single player's state; the return reports whether one
// existed.
func (c *Controller) Reset(id string) bool {
	return c.store.delete(id)
}

// ResetAll wipes every player's metrics and history.
func (c *Controller) ResetAll() {
	c.store.clear()
	c.logger.Info("controller state reset")
}

// ListPlayerIDs returns the ids of every tracked player, in no particular
// order. Used by the snapshot archiver.
func (c *Controller) ListPlayerIDs() []string {
	return c.store.ids()
}
