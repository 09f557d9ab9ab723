package experiment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/yinchen618/pu-in-practice/internal/models"
	"github.com/yinchen618/pu-in-practice/internal/requests"
)

// Resolver derives experiment configuration from recorded experiment runs.
type Resolver struct {
	baseURL  string
	requests *requests.Manager
	logger   *zap.Logger
}

func NewResolver(baseURL string, manager *requests.Manager, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		requests: manager,
		logger:   logger,
	}
}

// ConfigFromRun returns the positive-source config recorded on a run, or
// nil when the run has none or cannot be loaded. Callers fall back to
// DefaultConfig on nil.
func (r *Resolver) ConfigFromRun(ctx context.Context, runID string) *models.PartialExperimentConfig {
	if runID == "" {
		return nil
	}
	cfg, err := r.deriveFromRun(ctx, runID)
	if err != nil {
		r.logger.Error("Failed to derive experiment config",
			zap.String("run_id", runID),
			zap.String("kind", string(requests.KindOf(err))),
			zap.Int("status", requests.StatusOf(err)),
			zap.Error(err))
		return nil
	}
	if cfg == nil {
		r.logger.Debug("Experiment run has no filtering parameters", zap.String("run_id", runID))
	}
	return cfg
}

// Resolve returns DefaultConfig with whatever the run provides laid over it.
func (r *Resolver) Resolve(ctx context.Context, runID string) models.ExperimentConfig {
	return r.ConfigFromRun(ctx, runID).Apply(DefaultConfig())
}

// DefaultConfig is exposed on the resolver so handlers can depend on one
// interface.
func (r *Resolver) DefaultConfig() models.ExperimentConfig {
	return DefaultConfig()
}

func (r *Resolver) deriveFromRun(ctx context.Context, runID string) (*models.PartialExperimentConfig, error) {
	endpoint := r.baseURL + "/api/v1/experiment-runs/" + url.PathEscape(runID)
	body, err := r.requests.Get(ctx, endpoint,
		requests.WithOp("experiment_run"), requests.WithCache(), requests.WithDedupe())
	if err != nil {
		return nil, err
	}

	resp, err := requests.Decode[models.ExperimentRunResponse](endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.FilteringParameters == nil {
		return nil, nil
	}

	source, err := sourceFromParameters(*resp.Data.FilteringParameters)
	if err != nil {
		return nil, &requests.Error{URL: endpoint, Kind: requests.KindDecode, Err: err}
	}
	return &models.PartialExperimentConfig{PositiveSource: &source}, nil
}

func sourceFromParameters(params models.FilteringParameters) (models.DataSourceSpec, error) {
	startDate, err := calendarDate(params.StartDate)
	if err != nil {
		return models.DataSourceSpec{}, fmt.Errorf("start_date: %w", err)
	}
	endDate, err := calendarDate(params.EndDate)
	if err != nil {
		return models.DataSourceSpec{}, fmt.Errorf("end_date: %w", err)
	}

	floors := map[string][]string(params.SelectedFloorsByBuilding)
	if floors == nil {
		floors = fallbackFloors()
	}

	return models.DataSourceSpec{
		SelectedFloorsByBuilding: floors,
		TimeRange: models.TimeRange{
			StartDate: startDate,
			EndDate:   endDate,
			StartTime: orDefault(params.StartTime, models.DefaultStartTime),
			EndTime:   orDefault(params.EndTime, models.DefaultEndTime),
		},
	}, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
