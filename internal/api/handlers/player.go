package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phasegames/tempo/internal/controller"
	"github.com/phasegames/tempo/internal/domain"
)

// SnapshotPurger removes persisted snapshots when a player is reset, so a
// deleted player is not restored from storage at the next boot. Nil when the
// service runs without persistence.
type SnapshotPurger interface {
	PurgePlayer(ctx context.Context, id string) error
	PurgeAll(ctx context.Context) error
}

type PlayerHandler struct {
	ctrl   *controller.Controller
	purger SnapshotPurger
}

func NewPlayerHandler(ctrl *controller.Controller, purger SnapshotPurger) *PlayerHandler {
	return &PlayerHandler{ctrl: ctrl, purger: purger}
}

type tickRequest struct {
	SessionID    string  `json:"session_id"`
	Score        float64 `json:"score"`
	Difficulty   float64 `json:"difficulty"`
	CurrentLevel int     `json:"current_level"`
	TimeElapsed  int64   `json:"time_elapsed"`
	IsRunning    bool    `json:"is_running"`
}

type tickResponse struct {
	Difficulty float64 `json:"difficulty"`
}

// Tick feeds one game-state snapshot into the controller and returns the
// adjusted difficulty.
func (h *PlayerHandler) Tick(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	difficulty, err := h.ctrl.Update(domain.GameState{
		UserID:       playerID,
		SessionID:    req.SessionID,
		Score:        req.Score,
		Difficulty:   req.Difficulty,
		CurrentLevel: req.CurrentLevel,
		TimeElapsed:  req.TimeElapsed,
		IsRunning:    req.IsRunning,
	})
	if err != nil {
		switch {
		case errors.Is(err, controller.ErrMissingUserID):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to process tick")
		}
		return
	}

	writeJSON(w, http.StatusOK, tickResponse{Difficulty: difficulty})
}

func (h *PlayerHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	metrics, ok := h.ctrl.GetPlayerMetrics(playerID)
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

func (h *PlayerHandler) PatchMetrics(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	var patch domain.MetricsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A patch only merges into an existing player; it never creates one.
	if !h.ctrl.ApplyMetricsPatch(playerID, patch) {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	metrics, _ := h.ctrl.GetPlayerMetrics(playerID)
	writeJSON(w, http.StatusOK, metrics)
}

type historyResponse struct {
	Adjustments []domain.DifficultyAdjustment `json:"adjustments"`
	Count       int                           `json:"count"`
}

func (h *PlayerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	history := h.ctrl.GetAdjustmentHistory(playerID)
	if history == nil {
		history = []domain.DifficultyAdjustment{}
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Adjustments: history,
		Count:       len(history),
	})
}

type recommendationResponse struct {
	Difficulty float64 `json:"difficulty"`
}

func (h *PlayerHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	writeJSON(w, http.StatusOK, recommendationResponse{
		Difficulty: h.ctrl.GetRecommendedDifficulty(playerID),
	})
}

func (h *PlayerHandler) Export(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	data, ok := h.ctrl.ExportPlayerData(playerID)
	if !ok {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Import overwrites the player's state wholesale with the supplied export.
func (h *PlayerHandler) Import(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	var data domain.PlayerExport
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if data.PlayerType != "" && !domain.ValidTier(string(data.PlayerType)) {
		writeError(w, http.StatusBadRequest, "invalid player type")
		return
	}

	h.ctrl.ImportPlayerData(playerID, data)
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *PlayerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	if !h.ctrl.Reset(playerID) {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	if h.purger != nil {
		if err := h.purger.PurgePlayer(r.Context(), playerID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to purge snapshot")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *PlayerHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ResetAll()
	if h.purger != nil {
		if err := h.purger.PurgeAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to purge snapshots")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
