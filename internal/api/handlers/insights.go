package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phasegames/tempo/internal/controller"
	"github.com/phasegames/tempo/internal/domain"
)

type InsightsHandler struct {
	ctrl *controller.Controller
}

func NewInsightsHandler(ctrl *controller.Controller) *InsightsHandler {
	return &InsightsHandler{ctrl: ctrl}
}

type performanceResponse struct {
	Difficulty           float64 `json:"difficulty"`
	PredictedPerformance float64 `json:"predicted_performance"`
}

// PredictPerformance estimates success odds at the difficulty passed in the
// query string, defaulting to 1.0.
func (h *InsightsHandler) PredictPerformance(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	difficulty := 1.0
	if s := r.URL.Query().Get("difficulty"); s != "" {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid difficulty")
			return
		}
		difficulty = d
	}

	writeJSON(w, http.StatusOK, performanceResponse{
		Difficulty:           difficulty,
		PredictedPerformance: h.ctrl.PredictPerformance(playerID, difficulty),
	})
}

type engagementResponse struct {
	Forecast float64 `json:"forecast"`
}

func (h *InsightsHandler) EngagementForecast(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	writeJSON(w, http.StatusOK, engagementResponse{
		Forecast: h.ctrl.GetEngagementForecast(playerID),
	})
}

func (h *InsightsHandler) AnalyzeSkill(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "id")

	writeJSON(w, http.StatusOK, h.ctrl.AnalyzePlayerSkill(playerID))
}

type tierEntry struct {
	Tier  domain.PlayerTier      `json:"tier"`
	Curve domain.DifficultyCurve `json:"curve"`
}

// Tiers lists every player tier with its difficulty curve, highest first.
func (h *InsightsHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	tiers := domain.AllTiers()
	out := make([]tierEntry, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, tierEntry{Tier: tier, Curve: domain.CurveFor(tier)})
	}
	writeJSON(w, http.StatusOK, out)
}
