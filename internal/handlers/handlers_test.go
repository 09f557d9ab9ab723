package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/yinchen618/pu-in-practice/internal/models"
)

type mockRegistry struct {
	listModelsFn           func(ctx context.Context) []models.TrainedModel
	listModelsByRunFn      func(ctx context.Context, runID string) []models.TrainedModel
	listModelsByScenarioFn func(ctx context.Context, runID string, scenario models.ScenarioType) []models.TrainedModel
	getModelFn             func(ctx context.Context, modelID string) *models.TrainedModel
}

func (m *mockRegistry) ListModels(ctx context.Context) []models.TrainedModel {
	if m.listModelsFn == nil {
		return []models.TrainedModel{}
	}
	return m.listModelsFn(ctx)
}

func (m *mockRegistry) ListModelsByRun(ctx context.Context, runID string) []models.TrainedModel {
	if m.listModelsByRunFn == nil {
		return []models.TrainedModel{}
	}
	return m.listModelsByRunFn(ctx, runID)
}

func (m *mockRegistry) ListModelsByScenario(ctx context.Context, runID string, scenario models.ScenarioType) []models.TrainedModel {
	if m.listModelsByScenarioFn == nil {
		return []models.TrainedModel{}
	}
	return m.listModelsByScenarioFn(ctx, runID, scenario)
}

func (m *mockRegistry) GetModel(ctx context.Context, modelID string) *models.TrainedModel {
	if m.getModelFn == nil {
		return nil
	}
	return m.getModelFn(ctx, modelID)
}

type mockResolver struct {
	configFromRunFn func(ctx context.Context, runID string) *models.PartialExperimentConfig
	resolveFn       func(ctx context.Context, runID string) models.ExperimentConfig
	defaultConfigFn func() models.ExperimentConfig
}

func (m *mockResolver) ConfigFromRun(ctx context.Context, runID string) *models.PartialExperimentConfig {
	if m.configFromRunFn == nil {
		return nil
	}
	return m.configFromRunFn(ctx, runID)
}

func (m *mockResolver) Resolve(ctx context.Context, runID string) models.ExperimentConfig {
	if m.resolveFn == nil {
		return m.DefaultConfig()
	}
	return m.resolveFn(ctx, runID)
}

func (m *mockResolver) DefaultConfig() models.ExperimentConfig {
	if m.defaultConfigFn == nil {
		return models.ExperimentConfig{ScenarioType: models.ScenarioERMBaseline}
	}
	return m.defaultConfigFn()
}

// withURLParams attaches chi route params to a request the way the router would.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	OK   bool            `json:"ok"`
	Info json.RawMessage `json:"info"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
