package domain

import (
	"errors"
	"testing"
)

func TestDefaultControllerConfig_Valid(t *testing.T) {
	if err := DefaultControllerConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate_MinAboveMax(t *testing.T) {
	cfg := DefaultControllerConfig()
	cfg.MinDifficulty = 5
	cfg.MaxDifficulty = 2
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_RatesOutOfRange(t *testing.T) {
	cfg := DefaultControllerConfig()
	cfg.AdaptationRate = 1.5
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg = DefaultControllerConfig()
	cfg.SmoothingFactor = -0.1
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestMerged_AppliesOnlySetFields(t *testing.T) {
	cfg := DefaultControllerConfig()

	rate := 0.25
	emergency := false
	merged := cfg.Merged(ConfigPatch{
		AdaptationRate:      &rate,
		EmergencyAdjustment: &emergency,
	})

	if merged.AdaptationRate != 0.25 {
		t.Fatalf("expected adaptation rate 0.25, got %.2f", merged.AdaptationRate)
	}
	if merged.EmergencyAdjustment {
		t.Fatal("emergency adjustment should be disabled")
	}
	if merged.TargetSuccessRate != cfg.TargetSuccessRate {
		t.Fatal("unpatched field changed")
	}
	// The receiver is untouched.
	if cfg.AdaptationRate != 0.1 {
		t.Fatal("Merged mutated the original config")
	}
}
