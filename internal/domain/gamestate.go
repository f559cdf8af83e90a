package domain

// GameState is the per-tick input supplied by the game loop.
// TimeElapsed is milliseconds since the session started.
type GameState struct {
	UserID       string  `json:"user_id"`
	SessionID    string  `json:"session_id"`
	Score        float64 `json:"score"`
	Difficulty   float64 `json:"difficulty"`
	CurrentLevel int     `json:"current_level"`
	TimeElapsed  int64   `json:"time_elapsed"`
	IsRunning    bool    `json:"is_running"`
}

// Clamp restricts v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 restricts v to the unit interval.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
