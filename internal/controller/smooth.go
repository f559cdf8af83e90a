package controller

import (
	"math"

	"github.com/phasegames/tempo/internal/domain"
)

const (
	// Deltas smaller than this snap back to the current difficulty to
	// prevent oscillation.
	deadband = 0.01

	trendWindow = 5
)

// smoothDelta blends the raw delta with the smoothing factor. The blend is
// written out in full rather than simplified: the second term is the
// post-adjustment difficulty minus the current one, which an external
// override may change out from under the controller.
func smoothDelta(raw, current, smoothingFactor float64) float64 {
	return raw*(1-smoothingFactor) + ((current+raw)-current)*smoothingFactor
}

// applyAdjustment turns a raw delta into the emitted difficulty: smooth,
// clamp to the configured bounds, then apply the deadband.
func applyAdjustment(current, raw float64, cfg domain.ControllerConfig) float64 {
	smoothed := smoothDelta(raw, current, cfg.SmoothingFactor)
	next := domain.Clamp(current+smoothed, cfg.MinDifficulty, cfg.MaxDifficulty)
	if math.Abs(next-current) < deadband {
		return current
	}
	return next
}

// skillTrend compares the mean of the last five curve samples against the
// mean of the five before them. Returns 0 when there is no older slice to
// compare against; a zero older mean substitutes 1 as the denominator.
func skillTrend(curve []float64) float64 {
	if len(curve) < trendWindow {
		return 0
	}
	recent := curve[len(curve)-trendWindow:]

	olderStart := len(curve) - 2*trendWindow
	if olderStart < 0 {
		olderStart = 0
	}
	older := curve[olderStart : len(curve)-trendWindow]
	if len(older) == 0 {
		return 0
	}

	recentAvg := mean(recent)
	olderAvg := mean(older)
	denom := olderAvg
	if denom == 0 {
		denom = 1
	}
	return (recentAvg - olderAvg) / denom
}
