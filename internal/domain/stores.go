package domain

import (
	"context"
	"time"
)

// PlayerSnapshot is a persisted export of one player's model, written by
// the archiver collaborator. The controller itself never touches storage.
type PlayerSnapshot struct {
	PlayerID   string       `json:"player_id"`
	Data       PlayerExport `json:"data"`
	ExportedAt time.Time    `json:"exported_at"`
}

type SnapshotStore interface {
	Upsert(ctx context.Context, s *PlayerSnapshot) error
	LoadAll(ctx context.Context) ([]PlayerSnapshot, error)
	Delete(ctx context.Context, playerID string) error
	DeleteAll(ctx context.Context) error
}
