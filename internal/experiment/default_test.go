package experiment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinchen618/pu-in-practice/internal/models"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())

	split := cfg.SplitStrategy
	assert.Equal(t, 100, split.TrainRatio+split.ValidationRatio+split.TestRatio)

	for name, tr := range map[string]models.TimeRange{
		"positive":  cfg.PositiveSource.TimeRange,
		"unlabeled": cfg.UnlabeledSource.TimeRange,
		"test":      cfg.TestSource.TimeRange,
	} {
		start, err := time.Parse(time.DateOnly, tr.StartDate)
		require.NoError(t, err, name)
		end, err := time.Parse(time.DateOnly, tr.EndDate)
		require.NoError(t, err, name)
		assert.False(t, end.Before(start), name)
		assert.Equal(t, "00:00", tr.StartTime, name)
		assert.Equal(t, "23:59", tr.EndTime, name)
	}

	assert.True(t, cfg.UnlabeledSource.UseSameAsPositive)
	assert.True(t, cfg.TestSource.UseSameAsTraining)
	assert.Equal(t, models.ScenarioERMBaseline, cfg.ScenarioType)
	assert.Equal(t, models.ModelParams{
		ModelType:    "nnPU",
		PriorMethod:  "median",
		HiddenUnits:  100,
		Activation:   "relu",
		LambdaReg:    0.005,
		Optimizer:    "adam",
		LearningRate: 0.005,
		Epochs:       100,
		BatchSize:    128,
		Seed:         42,
	}, cfg.ModelParams)
}

func TestDefaultConfigIsFresh(t *testing.T) {
	first := DefaultConfig()
	first.PositiveSource.SelectedFloorsByBuilding["Building A"][0] = "7"
	first.TestSource.SelectedFloorsByBuilding["Building B"] = append(first.TestSource.SelectedFloorsByBuilding["Building B"], "1")

	second := DefaultConfig()
	assert.Equal(t, []string{"1", "2"}, second.PositiveSource.SelectedFloorsByBuilding["Building A"])
	assert.Empty(t, second.TestSource.SelectedFloorsByBuilding["Building B"])
}

func TestDefaultConfigJSONShape(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	require.NoError(t, err)

	var shape map[string]any
	require.NoError(t, json.Unmarshal(data, &shape))
	block := func(name string) map[string]any {
		b, ok := shape[name].(map[string]any)
		require.True(t, ok, name)
		return b
	}

	assert.Equal(t, "ERM_BASELINE", shape["scenarioType"])
	assert.Equal(t, true, block("unlabeledSource")["useSameAsPositive"])
	assert.Contains(t, block("unlabeledSource"), "selectedFloorsByBuilding")
	assert.Contains(t, block("testSource"), "timeRange")
	assert.Equal(t, float64(70), block("splitStrategy")["trainRatio"])
	assert.Equal(t, "", block("modelParams")["classPrior"])
}
