package registry

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/yinchen618/pu-in-practice/internal/models"
	"github.com/yinchen618/pu-in-practice/internal/requests"
)

const apiPrefix = "/api/v1"

// Client reads trained-model records from the training backend.
//
// The exported methods never fail: any error is logged and turned into an
// empty slice or nil so views can render "no models" directly. The fetch*
// methods keep the error for callers that need to tell the two apart.
type Client struct {
	baseURL  string
	requests *requests.Manager
	logger   *zap.Logger
}

func New(baseURL string, manager *requests.Manager, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		requests: manager,
		logger:   logger,
	}
}

// ListModels handles GET /api/v1/models/all
func (c *Client) ListModels(ctx context.Context) []models.TrainedModel {
	list, err := c.fetchAll(ctx)
	if err != nil {
		c.logFailure("list_models", err)
		return []models.TrainedModel{}
	}
	return list
}

// ListModelsByRun handles GET /api/v1/models/experiment/{runId}
func (c *Client) ListModelsByRun(ctx context.Context, runID string) []models.TrainedModel {
	if runID == "" {
		return []models.TrainedModel{}
	}
	list, err := c.fetchByRun(ctx, runID)
	if err != nil {
		c.logFailure("list_models_by_run", err, zap.String("run_id", runID))
		return []models.TrainedModel{}
	}
	return list
}

// ListModelsByScenario loads the run's models through the cached,
// de-duplicated path and keeps those tagged with scenario, in order.
func (c *Client) ListModelsByScenario(ctx context.Context, runID string, scenario models.ScenarioType) []models.TrainedModel {
	if runID == "" {
		return []models.TrainedModel{}
	}
	if !scenario.Known() {
		c.logger.Warn("Unknown scenario tag", zap.String("run_id", runID), zap.String("scenario", string(scenario)))
	}
	list, err := c.fetchByRun(ctx, runID, requests.WithCache(), requests.WithDedupe())
	if err != nil {
		c.logFailure("list_models_by_scenario", err,
			zap.String("run_id", runID), zap.String("scenario", string(scenario)))
		return []models.TrainedModel{}
	}
	return models.FilterByScenario(list, scenario)
}

// GetModel handles GET /api/v1/models/{modelId}; nil when unavailable.
func (c *Client) GetModel(ctx context.Context, modelID string) *models.TrainedModel {
	if modelID == "" {
		return nil
	}
	model, err := c.fetchDetail(ctx, modelID)
	if err != nil {
		c.logFailure("get_model", err, zap.String("model_id", modelID))
		return nil
	}
	return model
}

func (c *Client) fetchAll(ctx context.Context) ([]models.TrainedModel, error) {
	endpoint := c.endpoint("models", "all")
	body, err := c.requests.Get(ctx, endpoint, requests.WithOp("list_models"))
	if err != nil {
		return nil, err
	}
	resp, err := requests.Decode[models.ModelsResponse](endpoint, body)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Models), nil
}

func (c *Client) fetchByRun(ctx context.Context, runID string, opts ...requests.Option) ([]models.TrainedModel, error) {
	endpoint := c.endpoint("models", "experiment", runID)
	opts = append([]requests.Option{requests.WithOp("list_models_by_run")}, opts...)
	body, err := c.requests.Get(ctx, endpoint, opts...)
	if err != nil {
		return nil, err
	}
	resp, err := requests.Decode[models.RunModelsResponse](endpoint, body)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []models.TrainedModel{}, nil
	}
	return nonNil(resp.Data.Models), nil
}

func (c *Client) fetchDetail(ctx context.Context, modelID string) (*models.TrainedModel, error) {
	endpoint := c.endpoint("models", modelID)
	body, err := c.requests.Get(ctx, endpoint, requests.WithOp("get_model"))
	if err != nil {
		return nil, err
	}
	resp, err := requests.Decode[models.ModelDetailResponse](endpoint, body)
	if err != nil {
		return nil, err
	}
	return resp.Model, nil
}

func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(apiPrefix)
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}

func (c *Client) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("op", op),
		zap.String("kind", string(requests.KindOf(err))),
		zap.Int("status", requests.StatusOf(err)),
		zap.Error(err))
	c.logger.Error("Training backend request failed", fields...)
}

func nonNil(list []models.TrainedModel) []models.TrainedModel {
	if list == nil {
		return []models.TrainedModel{}
	}
	return list
}
