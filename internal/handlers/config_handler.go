package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yinchen618/pu-in-practice/internal/models"
	"github.com/yinchen618/pu-in-practice/internal/utils"
)

// ConfigResolver derives experiment configuration for the UI forms.
type ConfigResolver interface {
	ConfigFromRun(ctx context.Context, runID string) *models.PartialExperimentConfig
	Resolve(ctx context.Context, runID string) models.ExperimentConfig
	DefaultConfig() models.ExperimentConfig
}

type ConfigHandler struct {
	resolver ConfigResolver
}

func NewConfigHandler(resolver ConfigResolver) *ConfigHandler {
	return &ConfigHandler{resolver: resolver}
}

// ConfigFromRun handles GET /api/v1/case-study/runs/{run_id}/config
// info is null when the run has no derivable config.
func (ch *ConfigHandler) ConfigFromRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := requireRunID(w, r)
	if !ok {
		return
	}

	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: ch.resolver.ConfigFromRun(r.Context(), runID),
	})
}

// ResolvedConfig handles GET /api/v1/case-study/runs/{run_id}/config/resolved
func (ch *ConfigHandler) ResolvedConfig(w http.ResponseWriter, r *http.Request) {
	runID, ok := requireRunID(w, r)
	if !ok {
		return
	}

	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: ch.resolver.Resolve(r.Context(), runID),
	})
}

// DefaultConfig handles GET /api/v1/case-study/config/default
func (ch *ConfigHandler) DefaultConfig(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: ch.resolver.DefaultConfig(),
	})
}

func requireRunID(w http.ResponseWriter, r *http.Request) (string, bool) {
	runID := utils.NormalizeID(chi.URLParam(r, "run_id"))
	if runID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_run_id",
			Message: "run_id is required",
		})
		return "", false
	}
	return runID, true
}
