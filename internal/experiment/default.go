package experiment

import "github.com/yinchen618/pu-in-practice/internal/models"

// fallbackFloors is used when a run does not record its floor selection.
func fallbackFloors() map[string][]string {
	return map[string][]string{
		"Building A": {"1", "2"},
		"Building B": {},
	}
}

func defaultSource() models.DataSourceSpec {
	return models.DataSourceSpec{
		SelectedFloorsByBuilding: fallbackFloors(),
		TimeRange: models.TimeRange{
			StartDate: "2025-08-10",
			EndDate:   "2025-08-11",
			StartTime: models.DefaultStartTime,
			EndTime:   models.DefaultEndTime,
		},
	}
}

// DefaultConfig returns the fully populated configuration used as initial
// form state and as the fallback when a run yields no config. Every call
// returns a fresh value.
func DefaultConfig() models.ExperimentConfig {
	return models.ExperimentConfig{
		ScenarioType:   models.ScenarioERMBaseline,
		PositiveSource: defaultSource(),
		UnlabeledSource: models.UnlabeledSourceSpec{
			UseSameAsPositive: true,
			DataSourceSpec:    defaultSource(),
		},
		TestSource: models.TestSourceSpec{
			UseSameAsTraining: true,
			DataSourceSpec:    defaultSource(),
		},
		SplitStrategy: models.SplitStrategy{
			TrainRatio:      70,
			ValidationRatio: 15,
			TestRatio:       15,
		},
		ModelParams: models.ModelParams{
			ModelType:    "nnPU",
			PriorMethod:  "median",
			ClassPrior:   "",
			HiddenUnits:  100,
			Activation:   "relu",
			LambdaReg:    0.005,
			Optimizer:    "adam",
			LearningRate: 0.005,
			Epochs:       100,
			BatchSize:    128,
			Seed:         42,
		},
	}
}
