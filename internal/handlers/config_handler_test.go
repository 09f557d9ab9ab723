package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yinchen618/pu-in-practice/internal/models"
)

func TestConfigFromRun_NullWhenUnavailable(t *testing.T) {
	handler := NewConfigHandler(&mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case-study/runs/run-1/config", nil)
	req = withURLParams(req, map[string]string{"run_id": "run-1"})
	rec := httptest.NewRecorder()
	handler.ConfigFromRun(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.OK || string(env.Info) != "null" {
		t.Fatalf("expected ok with null info, got ok=%v info=%s", env.OK, env.Info)
	}
}

func TestConfigFromRun_PartialBlocks(t *testing.T) {
	resolver := &mockResolver{
		configFromRunFn: func(ctx context.Context, runID string) *models.PartialExperimentConfig {
			return &models.PartialExperimentConfig{
				PositiveSource: &models.DataSourceSpec{
					SelectedFloorsByBuilding: map[string][]string{"Building A": {"3"}},
					TimeRange:                models.TimeRange{StartDate: "2025-01-01", EndDate: "2025-01-02", StartTime: "00:00", EndTime: "23:59"},
				},
			}
		},
	}
	handler := NewConfigHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case-study/runs/run-1/config", nil)
	req = withURLParams(req, map[string]string{"run_id": "run-1"})
	rec := httptest.NewRecorder()
	handler.ConfigFromRun(rec, req)

	env := decodeEnvelope(t, rec)
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(env.Info, &blocks); err != nil {
		t.Fatalf("failed to decode partial config: %v", err)
	}
	if _, ok := blocks["positiveSource"]; !ok {
		t.Fatalf("expected positiveSource block, got %s", env.Info)
	}
	if _, ok := blocks["modelParams"]; ok {
		t.Fatalf("expected absent blocks to be omitted, got %s", env.Info)
	}
}

func TestResolvedConfig_UsesResolver(t *testing.T) {
	var gotRun string
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, runID string) models.ExperimentConfig {
			gotRun = runID
			return models.ExperimentConfig{ScenarioType: models.ScenarioDomainAdaptation}
		},
	}
	handler := NewConfigHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case-study/runs/run-9/config/resolved", nil)
	req = withURLParams(req, map[string]string{"run_id": "run-9"})
	rec := httptest.NewRecorder()
	handler.ResolvedConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotRun != "run-9" {
		t.Fatalf("expected run-9, got %q", gotRun)
	}
	env := decodeEnvelope(t, rec)
	var cfg models.ExperimentConfig
	if err := json.Unmarshal(env.Info, &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	if cfg.ScenarioType != models.ScenarioDomainAdaptation {
		t.Fatalf("unexpected scenario %q", cfg.ScenarioType)
	}
}

func TestResolvedConfig_MissingRunID(t *testing.T) {
	handler := NewConfigHandler(&mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case-study/runs//config/resolved", nil)
	req = withURLParams(req, map[string]string{"run_id": ""})
	rec := httptest.NewRecorder()
	handler.ResolvedConfig(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDefaultConfig(t *testing.T) {
	handler := NewConfigHandler(&mockResolver{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case-study/config/default", nil)
	rec := httptest.NewRecorder()
	handler.DefaultConfig(rec, req)

	env := decodeEnvelope(t, rec)
	var cfg models.ExperimentConfig
	if err := json.Unmarshal(env.Info, &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	if cfg.ScenarioType != models.ScenarioERMBaseline {
		t.Fatalf("unexpected scenario %q", cfg.ScenarioType)
	}
}
