package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid controller config")

// ControllerConfig holds the process-wide difficulty tuning knobs.
// It is immutable after construction; changes go through Merged.
type ControllerConfig struct {
	TargetSuccessRate       float64 `json:"target_success_rate"`
	TargetEngagementMinutes float64 `json:"target_engagement_minutes"`
	AdaptationRate          float64 `json:"adaptation_rate"`
	MinDifficulty           float64 `json:"min_difficulty"`
	MaxDifficulty           float64 `json:"max_difficulty"`
	SmoothingFactor         float64 `json:"smoothing_factor"`
	EmergencyAdjustment     bool    `json:"emergency_adjustment"`
	PersonalizedAdjustment  bool    `json:"personalized_adjustment"`
}

// DefaultControllerConfig returns the tuning used when nothing is configured.
// The neutral target of 0.5 means a player with no signal yet produces no
// performance-gap adjustment.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		TargetSuccessRate:       0.5,
		TargetEngagementMinutes: 15,
		AdaptationRate:          0.1,
		MinDifficulty:           0.5,
		MaxDifficulty:           10.0,
		SmoothingFactor:         0.3,
		EmergencyAdjustment:     true,
		PersonalizedAdjustment:  true,
	}
}

func (c ControllerConfig) Validate() error {
	if c.MinDifficulty >= c.MaxDifficulty {
		return fmt.Errorf("%w: min difficulty %.2f must be below max %.2f",
			ErrInvalidConfig, c.MinDifficulty, c.MaxDifficulty)
	}
	for name, v := range map[string]float64{
		"target_success_rate": c.TargetSuccessRate,
		"adaptation_rate":     c.AdaptationRate,
		"smoothing_factor":    c.SmoothingFactor,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %.2f out of [0,1]", ErrInvalidConfig, name, v)
		}
	}
	if c.TargetEngagementMinutes < 0 {
		return fmt.Errorf("%w: target_engagement_minutes must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// ConfigPatch is a partial config update; nil fields keep the current value.
type ConfigPatch struct {
	TargetSuccessRate       *float64 `json:"target_success_rate,omitempty"`
	TargetEngagementMinutes *float64 `json:"target_engagement_minutes,omitempty"`
	AdaptationRate          *float64 `json:"adaptation_rate,omitempty"`
	MinDifficulty           *float64 `json:"min_difficulty,omitempty"`
	MaxDifficulty           *float64 `json:"max_difficulty,omitempty"`
	SmoothingFactor         *float64 `json:"smoothing_factor,omitempty"`
	EmergencyAdjustment     *bool    `json:"emergency_adjustment,omitempty"`
	PersonalizedAdjustment  *bool    `json:"personalized_adjustment,omitempty"`
}

// Merged returns a copy of c with the patch's non-nil fields applied.
func (c ControllerConfig) Merged(p ConfigPatch) ControllerConfig {
	if p.TargetSuccessRate != nil {
		c.TargetSuccessRate = *p.TargetSuccessRate
	}
	if p.TargetEngagementMinutes != nil {
		c.TargetEngagementMinutes = *p.TargetEngagementMinutes
	}
	if p.AdaptationRate != nil {
		c.AdaptationRate = *p.AdaptationRate
	}
	if p.MinDifficulty != nil {
		c.MinDifficulty = *p.MinDifficulty
	}
	if p.MaxDifficulty != nil {
		c.MaxDifficulty = *p.MaxDifficulty
	}
	if p.SmoothingFactor != nil {
		c.SmoothingFactor = *p.SmoothingFactor
	}
	if p.EmergencyAdjustment != nil {
		c.EmergencyAdjustment = *p.EmergencyAdjustment
	}
	if p.PersonalizedAdjustment != nil {
		c.PersonalizedAdjustment = *p.PersonalizedAdjustment
	}
	return c
}
