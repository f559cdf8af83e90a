package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phasegames/tempo/internal/controller"
	"github.com/phasegames/tempo/internal/domain"
)

type ConfigHandler struct {
	ctrl *controller.Controller
}

func NewConfigHandler(ctrl *controller.Controller) *ConfigHandler {
	return &ConfigHandler{ctrl: ctrl}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Config())
}

// Patch merges partial tuning into the active config. A merge that breaks
// validation (e.g. min >= max) is rejected and nothing changes.
func (h *ConfigHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch domain.ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ctrl.UpdateConfig(patch); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidConfig):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update config")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.ctrl.Config())
}
