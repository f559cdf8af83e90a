package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phasegames/tempo/internal/domain"
)

type SnapshotStore struct {
	db *pgxpool.Pool
}

func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS player_snapshots (
			player_id   TEXT PRIMARY KEY,
			snapshot    JSONB NOT NULL,
			exported_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (s *SnapshotStore) Upsert(ctx context.Context, snap *domain.PlayerSnapshot) error {
	payload, err := json.Marshal(snap.Data)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO player_snapshots (player_id, snapshot, exported_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (player_id) DO UPDATE
		 SET snapshot = EXCLUDED.snapshot, exported_at = EXCLUDED.exported_at`,
		snap.PlayerID, payload, snap.ExportedAt,
	)
	return err
}

func (s *SnapshotStore) LoadAll(ctx context.Context) ([]domain.PlayerSnapshot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT player_id, snapshot, exported_at FROM player_snapshots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.PlayerSnapshot
	for rows.Next() {
		var (
			snap    domain.PlayerSnapshot
			payload []byte
		)
		if err := rows.Scan(&snap.PlayerID, &payload, &snap.ExportedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &snap.Data); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SnapshotStore) Delete(ctx context.Context, playerID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM player_snapshots WHERE player_id = $1`, playerID)
	return err
}

func (s *SnapshotStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM player_snapshots`)
	return err
}
