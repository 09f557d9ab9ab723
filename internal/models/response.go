package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// uniform envelope for gateway responses
type Resp struct {
	OK   bool        `json:"ok"`
	Info interface{} `json:"info"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

// GET /api/v1/models/all
type ModelsResponse struct {
	Models []TrainedModel `json:"models"`
}

// GET /api/v1/models/experiment/{runId}
type RunModelsResponse struct {
	Data *struct {
		Models []TrainedModel `json:"models"`
	} `json:"data"`
}

// GET /api/v1/models/{modelId}
type ModelDetailResponse struct {
	Model *TrainedModel `json:"model"`
}

// GET /api/v1/experiment-runs/{runId}
type ExperimentRunResponse struct {
	Data *struct {
		FilteringParameters *FilteringParameters `json:"filteringParameters"`
	} `json:"data"`
}

// FilteringParameters is the backend's representation of a data-source
// time/space filter attached to an experiment run.
type FilteringParameters struct {
	StartDate                string         `json:"start_date"`
	EndDate                  string         `json:"end_date"`
	StartTime                string         `json:"start_time,omitempty"`
	EndTime                  string         `json:"end_time,omitempty"`
	SelectedFloorsByBuilding FloorSelection `json:"selected_floors_by_building,omitempty"`
}

// FloorSelection maps building names to floor labels. The backend sends
// floors as strings or integers; both decode to strings.
type FloorSelection map[string][]string

func (f *FloorSelection) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(FloorSelection, len(raw))
	for building, floors := range raw {
		labels := make([]string, 0, len(floors))
		for _, floor := range floors {
			label, err := looseString(floor)
			if err != nil {
				return fmt.Errorf("floor of %s: %w", building, err)
			}
			if label != "" {
				labels = append(labels, label)
			}
		}
		out[building] = labels
	}
	*f = out
	return nil
}
