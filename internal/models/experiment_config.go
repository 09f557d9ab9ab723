package models

import (
	"fmt"
	"regexp"
	"time"
)

// inclusive scan window, dates as YYYY-MM-DD and times as HH:MM
type TimeRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DataSourceSpec selects floors per building and a time window.
// A building missing from the map has no floors selected.
type DataSourceSpec struct {
	SelectedFloorsByBuilding map[string][]string `json:"selectedFloorsByBuilding"`
	TimeRange                TimeRange           `json:"timeRange"`
}

type UnlabeledSourceSpec struct {
	UseSameAsPositive bool `json:"useSameAsPositive"`
	DataSourceSpec
}

type TestSourceSpec struct {
	UseSameAsTraining bool `json:"useSameAsTraining"`
	DataSourceSpec
}

// percentages; collaborators expect them to sum to 100
type SplitStrategy struct {
	TrainRatio      int `json:"trainRatio"`
	ValidationRatio int `json:"validationRatio"`
	TestRatio       int `json:"testRatio"`
}

type ModelParams struct {
	ModelType    string  `json:"modelType"`
	PriorMethod  string  `json:"priorMethod"`
	ClassPrior   string  `json:"classPrior"`
	HiddenUnits  int     `json:"hiddenUnits"`
	Activation   string  `json:"activation"`
	LambdaReg    float64 `json:"lambdaReg"`
	Optimizer    string  `json:"optimizer"`
	LearningRate float64 `json:"learningRate"`
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batchSize"`
	Seed         int64   `json:"seed"`
}

type ExperimentConfig struct {
	ScenarioType    ScenarioType        `json:"scenarioType"`
	PositiveSource  DataSourceSpec      `json:"positiveSource"`
	UnlabeledSource UnlabeledSourceSpec `json:"unlabeledSource"`
	TestSource      TestSourceSpec      `json:"testSource"`
	SplitStrategy   SplitStrategy       `json:"splitStrategy"`
	ModelParams     ModelParams         `json:"modelParams"`
}

// PartialExperimentConfig carries only the blocks that could be derived
// from a remote record. Nil fields are absent.
type PartialExperimentConfig struct {
	ScenarioType    *ScenarioType        `json:"scenarioType,omitempty"`
	PositiveSource  *DataSourceSpec      `json:"positiveSource,omitempty"`
	UnlabeledSource *UnlabeledSourceSpec `json:"unlabeledSource,omitempty"`
	TestSource      *TestSourceSpec      `json:"testSource,omitempty"`
	SplitStrategy   *SplitStrategy       `json:"splitStrategy,omitempty"`
	ModelParams     *ModelParams         `json:"modelParams,omitempty"`
}

// Apply overlays the present blocks of p onto a copy of base.
func (p *PartialExperimentConfig) Apply(base ExperimentConfig) ExperimentConfig {
	if p == nil {
		return base
	}
	if p.ScenarioType != nil {
		base.ScenarioType = *p.ScenarioType
	}
	if p.PositiveSource != nil {
		base.PositiveSource = p.PositiveSource.Clone()
	}
	if p.UnlabeledSource != nil {
		base.UnlabeledSource = UnlabeledSourceSpec{
			UseSameAsPositive: p.UnlabeledSource.UseSameAsPositive,
			DataSourceSpec:    p.UnlabeledSource.DataSourceSpec.Clone(),
		}
	}
	if p.TestSource != nil {
		base.TestSource = TestSourceSpec{
			UseSameAsTraining: p.TestSource.UseSameAsTraining,
			DataSourceSpec:    p.TestSource.DataSourceSpec.Clone(),
		}
	}
	if p.SplitStrategy != nil {
		base.SplitStrategy = *p.SplitStrategy
	}
	if p.ModelParams != nil {
		base.ModelParams = *p.ModelParams
	}
	return base
}

// Clone returns a copy that shares no maps or slices with s.
func (s DataSourceSpec) Clone() DataSourceSpec {
	out := DataSourceSpec{TimeRange: s.TimeRange}
	if s.SelectedFloorsByBuilding != nil {
		out.SelectedFloorsByBuilding = make(map[string][]string, len(s.SelectedFloorsByBuilding))
		for building, floors := range s.SelectedFloorsByBuilding {
			out.SelectedFloorsByBuilding[building] = append([]string{}, floors...)
		}
	}
	return out
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks the window is well formed: ISO dates, HH:MM times and
// startDate <= endDate.
func (tr TimeRange) Validate() error {
	start, err := time.Parse(time.DateOnly, tr.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate %q", tr.StartDate)
	}
	end, err := time.Parse(time.DateOnly, tr.EndDate)
	if err != nil {
		return fmt.Errorf("invalid endDate %q", tr.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("endDate %s before startDate %s", tr.EndDate, tr.StartDate)
	}
	if !clockPattern.MatchString(tr.StartTime) {
		return fmt.Errorf("invalid startTime %q", tr.StartTime)
	}
	if !clockPattern.MatchString(tr.EndTime) {
		return fmt.Errorf("invalid endTime %q", tr.EndTime)
	}
	return nil
}

func (s SplitStrategy) Validate() error {
	if s.TrainRatio < 0 || s.ValidationRatio < 0 || s.TestRatio < 0 {
		return fmt.Errorf("split ratios must be non-negative")
	}
	if sum := s.TrainRatio + s.ValidationRatio + s.TestRatio; sum != 100 {
		return fmt.Errorf("split ratios sum to %d, want 100", sum)
	}
	return nil
}

// Validate reports the first structural problem in a full config.
func (c ExperimentConfig) Validate() error {
	if c.ScenarioType == "" {
		return &ErrorResponse{Code: "missing_scenario", Message: "scenarioType is required"}
	}
	sources := map[string]TimeRange{
		"positiveSource":  c.PositiveSource.TimeRange,
		"unlabeledSource": c.UnlabeledSource.TimeRange,
		"testSource":      c.TestSource.TimeRange,
	}
	for name, tr := range sources {
		if err := tr.Validate(); err != nil {
			return &ErrorResponse{Code: "invalid_time_range", Message: name + ": " + err.Error()}
		}
	}
	if c.PositiveSource.SelectedFloorsByBuilding == nil {
		return &ErrorResponse{Code: "missing_floors", Message: "positiveSource.selectedFloorsByBuilding is required"}
	}
	if err := c.SplitStrategy.Validate(); err != nil {
		return &ErrorResponse{Code: "invalid_split", Message: err.Error()}
	}
	if c.ModelParams.ModelType == "" || c.ModelParams.Optimizer == "" || c.ModelParams.Activation == "" {
		return &ErrorResponse{Code: "invalid_model_params", Message: "modelType, activation and optimizer are required"}
	}
	if c.ModelParams.Epochs <= 0 || c.ModelParams.BatchSize <= 0 || c.ModelParams.HiddenUnits <= 0 {
		return &ErrorResponse{Code: "invalid_model_params", Message: "epochs, batchSize and hiddenUnits must be positive"}
	}
	return nil
}
