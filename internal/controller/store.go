package controller

import (
	"sync"

	"github.com/phasegames/tempo/internal/domain"
)

// playerEntry is one player's model plus its adjustment log. The entry
// mutex serializes all access for that player; the learning curve,
// smoothing and history are order-dependent.
type playerEntry struct {
	mu      sync.Mutex
	metrics *domain.PlayerMetrics
	history []domain.DifficultyAdjustment
}

func (e *playerEntry) appendHistory(adj domain.DifficultyAdjustment) {
	e.history = append(e.history, adj)
	if len(e.history) > domain.AdjustmentHistoryCap {
		e.history = e.history[len(e.history)-domain.AdjustmentHistoryCap:]
	}
}

// metricsStore shards players by id: the outer RWMutex only guards the map,
// so updates for different players run concurrently while same-player calls
// serialize on the entry mutex.
type metricsStore struct {
	mu      sync.RWMutex
	players map[string]*playerEntry
}

func newMetricsStore() *metricsStore {
	return &metricsStore{players: make(map[string]*playerEntry)}
}

func (s *metricsStore) get(id string) (*playerEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.players[id]
	return e, ok
}

func (s *metricsStore) getOrCreate(id string, init func() *domain.PlayerMetrics) *playerEntry {
	s.mu.RLock()
	e, ok := s.players[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check after acquiring the write lock.
	if e, ok = s.players[id]; ok {
		return e
	}
	e = &playerEntry{metrics: init()}
	s.players[id] = e
	return e
}

func (s *metricsStore) put(id string, e *playerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[id] = e
}

func (s *metricsStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[id]
	delete(s.players, id)
	return ok
}

func (s *metricsStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[string]*playerEntry)
}

func (s *metricsStore) ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.players))
	for id := range s.players {
		out = append(out, id)
	}
	return out
}
