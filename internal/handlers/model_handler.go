package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yinchen618/pu-in-practice/internal/models"
	"github.com/yinchen618/pu-in-practice/internal/utils"
)

// ModelRegistry is the fail-soft model listing surface.
type ModelRegistry interface {
	ListModels(ctx context.Context) []models.TrainedModel
	ListModelsByRun(ctx context.Context, runID string) []models.TrainedModel
	ListModelsByScenario(ctx context.Context, runID string, scenario models.ScenarioType) []models.TrainedModel
	GetModel(ctx context.Context, modelID string) *models.TrainedModel
}

type ModelHandler struct {
	registry ModelRegistry
}

func NewModelHandler(registry ModelRegistry) *ModelHandler {
	return &ModelHandler{registry: registry}
}

// ListModels handles GET /api/v1/case-study/models
func (mh *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: mh.registry.ListModels(r.Context()),
	})
}

// ListRunModels handles GET /api/v1/case-study/runs/{run_id}/models
// An optional ?scenario= narrows the list to one scenario tag.
func (mh *ModelHandler) ListRunModels(w http.ResponseWriter, r *http.Request) {
	runID := utils.NormalizeID(chi.URLParam(r, "run_id"))
	if runID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_run_id",
			Message: "run_id is required",
		})
		return
	}

	var list []models.TrainedModel
	if scenario := utils.NormalizeScenario(r.URL.Query().Get("scenario")); scenario != "" {
		list = mh.registry.ListModelsByScenario(r.Context(), runID, models.ScenarioType(scenario))
	} else {
		list = mh.registry.ListModelsByRun(r.Context(), runID)
	}

	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: list,
	})
}

// GetModel handles GET /api/v1/case-study/models/{model_id}
func (mh *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	modelID := utils.NormalizeID(chi.URLParam(r, "model_id"))
	if modelID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_model_id",
			Message: "model_id is required",
		})
		return
	}

	model := mh.registry.GetModel(r.Context(), modelID)
	if model == nil {
		utils.JSON(w, http.StatusNotFound, models.Resp{
			OK:   false,
			Info: "model not available",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.Resp{
		OK:   true,
		Info: model,
	})
}
