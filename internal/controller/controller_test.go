package controller

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phasegames/tempo/internal/domain"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

var testNow = time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, cfg domain.ControllerConfig) *Controller {
	t.Helper()
	c, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("failed to build controller: %v", err)
	}
	c.now = func() time.Time { return testNow }
	return c
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := domain.DefaultControllerConfig()
	cfg.MinDifficulty = 5
	cfg.MaxDifficulty = 1
	if _, err := New(cfg, testLogger()); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestUpdate_RequiresUserID(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	if _, err := c.Update(domain.GameState{}); err != ErrMissingUserID {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestUpdate_YoungSessionHoldsDifficulty(t *testing.T) {
	// A brand-new player with under ten seconds of play carries no
	// signal: the difficulty comes back untouched.
	c := newTestController(t, domain.DefaultControllerConfig())

	got, err := c.Update(domain.GameState{
		UserID:       "p1",
		SessionID:    "s1",
		Score:        100,
		Difficulty:   1.0,
		CurrentLevel: 14,
		TimeElapsed:  5000,
		IsRunning:    true,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("expected difficulty to hold at 1.0, got %v", got)
	}

	history := c.GetAdjustmentHistory("p1")
	if len(history) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history))
	}
	approx(t, history[0].Metrics.SuccessRate, 0.5)
}

func TestUpdate_EmergencyFrustrationRelief(t *testing.T) {
	cfg := domain.DefaultControllerConfig()
	cfg.MinDifficulty = 0.2
	c := newTestController(t, cfg)

	seed := domain.GameState{
		UserID: "p1", SessionID: "s1",
		Score: 100, Difficulty: 3.0, CurrentLevel: 27, TimeElapsed: 5000, IsRunning: true,
	}
	if _, err := c.Update(seed); err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	frustration := 0.85
	if !c.ApplyMetricsPatch("p1", domain.MetricsPatch{Frustration: &frustration}) {
		t.Fatal("patch should find the player")
	}

	seed.Score = 110
	got, err := c.Update(seed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// Emergency cutback of at least 0.2 from the incoming 3.0.
	if got > 2.8 {
		t.Fatalf("expected a hard cutback from 3.0, got %v", got)
	}

	history := c.GetAdjustmentHistory("p1")
	last := history[len(history)-1]
	approx(t, last.Confidence, 0.9)
	if !strings.Contains(last.Reason, "emergency") {
		t.Fatalf("expected emergency marker in reason, got %q", last.Reason)
	}
}

func TestUpdate_StaysWithinBounds(t *testing.T) {
	cfg := domain.DefaultControllerConfig()
	c := newTestController(t, cfg)

	difficulty := 1.0
	for i := 0; i < 100; i++ {
		got, err := c.Update(domain.GameState{
			UserID:       "p1",
			SessionID:    "s1",
			Score:        float64(i * 37 % 500),
			Difficulty:   difficulty,
			CurrentLevel: i % 30,
			TimeElapsed:  int64(i * 4000),
			IsRunning:    true,
		})
		if err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
		if got < cfg.MinDifficulty || got > cfg.MaxDifficulty {
			t.Fatalf("update %d escaped bounds: %v", i, got)
		}
		difficulty = got
	}
}

func TestUpdate_HistoryAndCurveCaps(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	for i := 0; i < 60; i++ {
		if _, err := c.Update(domain.GameState{
			UserID:      "p1",
			SessionID:   "s1",
			Score:       float64(i),
			Difficulty:  1.0,
			TimeElapsed: 5000,
			IsRunning:   true,
		}); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
	}

	if got := len(c.GetAdjustmentHistory("p1")); got != domain.AdjustmentHistoryCap {
		t.Fatalf("expected history capped at %d, got %d", domain.AdjustmentHistoryCap, got)
	}
	m, ok := c.GetPlayerMetrics("p1")
	if !ok {
		t.Fatal("player should exist")
	}
	if len(m.LearningCurve) != domain.LearningCurveCap {
		t.Fatalf("expected curve capped at %d, got %d", domain.LearningCurveCap, len(m.LearningCurve))
	}
}

func TestUpdate_NewSessionIncrementsCount(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	gs := domain.GameState{UserID: "p1", SessionID: "s1", Difficulty: 1.0, TimeElapsed: 5000}
	_, _ = c.Update(gs)
	_, _ = c.Update(gs)
	gs.SessionID = "s2"
	_, _ = c.Update(gs)

	m, _ := c.GetPlayerMetrics("p1")
	if m.SessionCount != 2 {
		t.Fatalf("expected 2 sessions, got %d", m.SessionCount)
	}
}

func TestGetPlayerMetrics_AbsentIsExplicit(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	if _, ok := c.GetPlayerMetrics("ghost"); ok {
		t.Fatal("unknown player should be reported absent")
	}
}

func TestGetPlayerMetrics_ReturnsACopy(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	_, _ = c.Update(domain.GameState{UserID: "p1", SessionID: "s1", Score: 10, Difficulty: 1.0, TimeElapsed: 5000})

	m, _ := c.GetPlayerMetrics("p1")
	m.Frustration = 1
	m.LearningCurve[0] = 9999

	fresh, _ := c.GetPlayerMetrics("p1")
	if fresh.Frustration == 1 || fresh.LearningCurve[0] == 9999 {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestApplyMetricsPatch_NeverCreates(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	avg := 100.0
	if c.ApplyMetricsPatch("ghost", domain.MetricsPatch{AverageScore: &avg}) {
		t.Fatal("patch must not create a player")
	}
	if _, ok := c.GetPlayerMetrics("ghost"); ok {
		t.Fatal("patch created a player")
	}
}

func TestQueries_UnknownPlayerSentinels(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	approx(t, c.GetRecommendedDifficulty("ghost"), 1.0)
	approx(t, c.PredictPerformance("ghost", 2.0), 0.5)
	approx(t, c.GetEngagementForecast("ghost"), 0.5)
	if got := c.AnalyzePlayerSkill("ghost"); got.Category != "unrated" {
		t.Fatalf("expected unrated, got %s", got.Category)
	}
	if got := c.GetAdjustmentHistory("ghost"); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
}

func TestGetRecommendedDifficulty_UsesCappedSessionLevel(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	_, _ = c.Update(domain.GameState{UserID: "p1", SessionID: "s1", Difficulty: 1.0, TimeElapsed: 5000})

	sessions := 200
	tolerance := 0.7
	_ = c.ApplyMetricsPatch("p1", domain.MetricsPatch{
		SessionCount:         &sessions,
		FrustrationTolerance: &tolerance,
	})

	// Beginner curve at the capped level 50 exceeds its max of 2.0.
	approx(t, c.GetRecommendedDifficulty("p1"), 2.0)
}

func TestClassification_ThroughExport(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	c.ImportPlayerData("p1", domain.PlayerExport{
		Metrics: domain.PlayerMetrics{
			AverageScore:   1200,
			CompletionRate: 0.85,
			SessionCount:   60,
		},
	})

	data, ok := c.ExportPlayerData("p1")
	if !ok {
		t.Fatal("player should exist after import")
	}
	if data.PlayerType != domain.TierExpert {
		t.Fatalf("expected expert, got %s", data.PlayerType)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	for i := 0; i < 12; i++ {
		_, _ = c.Update(domain.GameState{
			UserID:      "p1",
			SessionID:   "s1",
			Score:       float64(10 + i*3),
			Difficulty:  1.0,
			TimeElapsed: int64(12000 + i*1000),
			IsRunning:   true,
		})
	}

	exported, ok := c.ExportPlayerData("p1")
	if !ok {
		t.Fatal("expected export")
	}

	c.ResetAll()
	c.ImportPlayerData("p1", exported)

	restored, ok := c.ExportPlayerData("p1")
	if !ok {
		t.Fatal("expected export after import")
	}
	if !reflect.DeepEqual(exported, restored) {
		t.Fatalf("round trip diverged:\nbefore: %+v\nafter:  %+v", exported, restored)
	}
}

func TestExportImport_SurvivesJSON(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	for i := 0; i < 5; i++ {
		_, _ = c.Update(domain.GameState{
			UserID:      "p1",
			SessionID:   "s1",
			Score:       float64(50 + i),
			Difficulty:  1.5,
			TimeElapsed: 15000,
			IsRunning:   true,
		})
	}

	exported, _ := c.ExportPlayerData("p1")
	payload, err := json.Marshal(exported)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded domain.PlayerExport
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	c.ResetAll()
	c.ImportPlayerData("p1", decoded)

	restored, ok := c.GetPlayerMetrics("p1")
	if !ok {
		t.Fatal("player missing after JSON round trip")
	}
	approx(t, restored.AverageScore, exported.Metrics.AverageScore)
	approx(t, restored.Frustration, exported.Metrics.Frustration)
	if !reflect.DeepEqual(restored.LearningCurve, exported.Metrics.LearningCurve) {
		t.Fatal("learning curve diverged through JSON")
	}
	if got := len(c.GetAdjustmentHistory("p1")); got != len(exported.AdjustmentHistory) {
		t.Fatalf("history length diverged: %d vs %d", got, len(exported.AdjustmentHistory))
	}
}

func TestImportPlayerData_NormalizesPayload(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	curve := make([]float64, 40)
	history := make([]domain.DifficultyAdjustment, 70)
	c.ImportPlayerData("p1", domain.PlayerExport{
		Metrics: domain.PlayerMetrics{
			Frustration:   3.0,
			LearningCurve: curve,
		},
		AdjustmentHistory: history,
	})

	m, _ := c.GetPlayerMetrics("p1")
	approx(t, m.Frustration, 1.0)
	if len(m.LearningCurve) != domain.LearningCurveCap {
		t.Fatalf("imported curve not capped: %d", len(m.LearningCurve))
	}
	if got := len(c.GetAdjustmentHistory("p1")); got != domain.AdjustmentHistoryCap {
		t.Fatalf("imported history not capped: %d", got)
	}
}

func TestReset_SinglePlayer(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	_, _ = c.Update(domain.GameState{UserID: "p1", SessionID: "s1", Difficulty: 1.0, TimeElapsed: 5000})
	_, _ = c.Update(domain.GameState{UserID: "p2", SessionID: "s1", Difficulty: 1.0, TimeElapsed: 5000})

	if !c.Reset("p1") {
		t.Fatal("expected reset to find p1")
	}
	if c.Reset("p1") {
		t.Fatal("second reset should find nothing")
	}
	if _, ok := c.GetPlayerMetrics("p1"); ok {
		t.Fatal("p1 should be gone")
	}
	if _, ok := c.GetPlayerMetrics("p2"); !ok {
		t.Fatal("p2 should survive")
	}
}

func TestResetAll_WipesEveryPlayer(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())
	for _, id := range []string{"p1", "p2", "p3"} {
		_, _ = c.Update(domain.GameState{UserID: id, SessionID: "s1", Difficulty: 1.0, TimeElapsed: 5000})
	}

	c.ResetAll()

	for _, id := range []string{"p1", "p2", "p3"} {
		if _, ok := c.GetPlayerMetrics(id); ok {
			t.Fatalf("%s should be gone after full reset", id)
		}
	}
	if len(c.ListPlayerIDs()) != 0 {
		t.Fatal("player list should be empty")
	}
}

func TestUpdateConfig_RejectsBrokenMerge(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	min := 20.0
	if err := c.UpdateConfig(domain.ConfigPatch{MinDifficulty: &min}); err == nil {
		t.Fatal("expected validation error")
	}
	// Nothing changed.
	approx(t, c.Config().MinDifficulty, domain.DefaultControllerConfig().MinDifficulty)
}

func TestUpdateConfig_Applies(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	rate := 0.2
	if err := c.UpdateConfig(domain.ConfigPatch{AdaptationRate: &rate}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	approx(t, c.Config().AdaptationRate, 0.2)
}

func TestUpdate_ConcurrentPlayersAreIndependent(t *testing.T) {
	c := newTestController(t, domain.DefaultControllerConfig())

	var wg sync.WaitGroup
	ids := []string{"p1", "p2", "p3", "p4"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = c.Update(domain.GameState{
					UserID:      id,
					SessionID:   "s1",
					Score:       float64(i),
					Difficulty:  1.0,
					TimeElapsed: 15000,
					IsRunning:   true,
				})
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		m, ok := c.GetPlayerMetrics(id)
		if !ok {
			t.Fatalf("%s missing", id)
		}
		if len(m.LearningCurve) != domain.LearningCurveCap {
			t.Fatalf("%s curve has %d entries", id, len(m.LearningCurve))
		}
	}
}
