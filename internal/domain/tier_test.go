package domain

import "testing"

func TestClassifyPlayer_Expert(t *testing.T) {
	m := &PlayerMetrics{
		AverageScore:   1200,
		CompletionRate: 0.85,
		SessionCount:   60,
	}
	if got := ClassifyPlayer(m); got != TierExpert {
		t.Fatalf("expected expert, got %s", got)
	}
}

func TestClassifyPlayer_Hardcore(t *testing.T) {
	m := &PlayerMetrics{
		AverageScore:     700,
		CompletionRate:   0.7,
		SessionCount:     25,
		ChallengeSeeking: 0.8,
	}
	if got := ClassifyPlayer(m); got != TierHardcore {
		t.Fatalf("expected hardcore, got %s", got)
	}
}

func TestClassifyPlayer_HardcoreRequiresChallengeSeeking(t *testing.T) {
	// Same numbers as a hardcore player but without the challenge
	// appetite falls through to regular.
	m := &PlayerMetrics{
		AverageScore:     700,
		CompletionRate:   0.7,
		SessionCount:     25,
		ChallengeSeeking: 0.5,
		TotalPlayTime:    4_000_000,
	}
	if got := ClassifyPlayer(m); got != TierRegular {
		t.Fatalf("expected regular, got %s", got)
	}
}

func TestClassifyPlayer_Regular(t *testing.T) {
	m := &PlayerMetrics{
		AverageScore:  400,
		SessionCount:  15,
		TotalPlayTime: 4_000_000,
	}
	if got := ClassifyPlayer(m); got != TierRegular {
		t.Fatalf("expected regular, got %s", got)
	}
}

func TestClassifyPlayer_Casual(t *testing.T) {
	m := &PlayerMetrics{
		SessionCount:         8,
		FrustrationTolerance: 0.3,
	}
	if got := ClassifyPlayer(m); got != TierCasual {
		t.Fatalf("expected casual, got %s", got)
	}
}

func TestClassifyPlayer_BeginnerDefault(t *testing.T) {
	if got := ClassifyPlayer(&PlayerMetrics{}); got != TierBeginner {
		t.Fatalf("expected beginner, got %s", got)
	}
}

func TestClassifyPlayer_FirstMatchWins(t *testing.T) {
	// A player matching both the expert and hardcore conditions must get
	// the earlier, more specific tier.
	m := &PlayerMetrics{
		AverageScore:     2000,
		CompletionRate:   0.9,
		SessionCount:     100,
		ChallengeSeeking: 0.9,
		TotalPlayTime:    10_000_000,
	}
	if got := ClassifyPlayer(m); got != TierExpert {
		t.Fatalf("expected expert, got %s", got)
	}
}

func TestClassifyPlayer_Idempotent(t *testing.T) {
	m := &PlayerMetrics{
		AverageScore:  400,
		SessionCount:  15,
		TotalPlayTime: 4_000_000,
	}
	first := ClassifyPlayer(m)
	second := ClassifyPlayer(m)
	if first != second {
		t.Fatalf("classification changed with unchanged metrics: %s then %s", first, second)
	}
}

func TestCurveFor_KnownTiers(t *testing.T) {
	for _, tier := range AllTiers() {
		c := CurveFor(tier)
		if c.Base <= 0 || c.Growth <= 0 || c.Max <= 0 {
			t.Fatalf("tier %s has a degenerate curve %+v", tier, c)
		}
	}
}

func TestCurveFor_UnknownTierFallsBack(t *testing.T) {
	if CurveFor(PlayerTier("mystery")) != DifficultyCurves[TierBeginner] {
		t.Fatal("unknown tier should use the beginner curve")
	}
}

func TestTargetFor_CapsAtMax(t *testing.T) {
	c := DifficultyCurves[TierBeginner]
	if got := c.TargetFor(1000); got != c.Max {
		t.Fatalf("expected cap at %.1f, got %.2f", c.Max, got)
	}
	if got := c.TargetFor(2); got != 0.4 {
		t.Fatalf("expected 0.4, got %.2f", got)
	}
}

func TestValidTier(t *testing.T) {
	if !ValidTier("expert") {
		t.Fatal("expert should be valid")
	}
	if ValidTier("legendary") {
		t.Fatal("legendary should not be valid")
	}
}
