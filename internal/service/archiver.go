package service

import (
	"context"
	"sync"
	"time"

	"github.com/phasegames/tempo/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultArchiveInterval = 15 * time.Minute
	archiveTimeout         = 30 * time.Second
)

// PlayerExporter is the slice of the controller facade the archiver needs:
// enumerate players, snapshot them, and restore snapshots at boot.
type PlayerExporter interface {
	ListPlayerIDs() []string
	ExportPlayerData(id string) (domain.PlayerExport, bool)
	ImportPlayerData(id string, data domain.PlayerExport)
}

// ArchiverService periodically flushes every player's snapshot to the
// snapshot store. The controller stays I/O-free; this is the persistence
// collaborator.
type ArchiverService struct {
	exporter PlayerExporter
	store    domain.SnapshotStore
	logger   *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewArchiverService(exporter PlayerExporter, store domain.SnapshotStore, logger *zap.Logger) *ArchiverService {
	return &ArchiverService{
		exporter: exporter,
		store:    store,
		logger:   logger,
		interval: defaultArchiveInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *ArchiverService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the archiver on a periodic schedule in a background goroutine.
func (s *ArchiverService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("snapshot archiver started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
				if err := s.FlushAll(ctx); err != nil {
					s.logger.Error("snapshot flush failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("snapshot archiver stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the archiver after a final flush.
func (s *ArchiverService) Stop() {
	close(s.stopCh)
	s.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := s.FlushAll(ctx); err != nil {
		s.logger.Warn("final snapshot flush failed", zap.Error(err))
	}
}

// FlushAll snapshots every tracked player. Individual failures are logged
// and skipped so one bad row never stalls the rest.
func (s *ArchiverService) FlushAll(ctx context.Context) error {
	flushed := 0
	for _, id := range s.exporter.ListPlayerIDs() {
		data, ok := s.exporter.ExportPlayerData(id)
		if !ok {
			continue // reset raced the enumeration
		}
		snap := &domain.PlayerSnapshot{
			PlayerID:   id,
			Data:       data,
			ExportedAt: data.ExportedAt,
		}
		if err := s.store.Upsert(ctx, snap); err != nil {
			s.logger.Warn("snapshot upsert failed",
				zap.String("player_id", id),
				zap.Error(err))
			continue
		}
		flushed++
	}

	s.logger.Debug("snapshot flush complete", zap.Int("players", flushed))
	return ctx.Err()
}

// PurgePlayer removes a player's persisted snapshot. Called on reset so a
// deleted player does not come back from storage at the next boot.
func (s *ArchiverService) PurgePlayer(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("snapshot purged", zap.String("player_id", id))
	return nil
}

// PurgeAll drops every persisted snapshot alongside a full reset.
func (s *ArchiverService) PurgeAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all snapshots purged")
	return nil
}

// Restore imports every persisted snapshot into the controller. Called once
// at boot, before the server starts taking ticks.
func (s *ArchiverService) Restore(ctx context.Context) error {
	snaps, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		s.exporter.ImportPlayerData(snap.PlayerID, snap.Data)
	}

	s.logger.Info("snapshots restored", zap.Int("players", len(snaps)))
	return nil
}
