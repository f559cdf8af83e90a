package domain

import "time"

// PlayerExport is the serializable snapshot of everything the controller
// knows about one player. Export followed by import must restore an
// equivalent model; this struct is that round-trip contract.
type PlayerExport struct {
	PlayerID          string                 `json:"player_id"`
	Metrics           PlayerMetrics          `json:"metrics"`
	AdjustmentHistory []DifficultyAdjustment `json:"adjustment_history"`
	PlayerType        PlayerTier             `json:"player_type"`
	Recommendations   []string               `json:"recommendations"`
	ExportedAt        time.Time              `json:"exported_at"`
}
