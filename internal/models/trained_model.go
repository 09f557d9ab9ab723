package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TrainedModel describes a completed training run as reported by the
// training backend. Only the fields the gateway reasons about are typed;
// everything else the backend sends is kept in Metadata.
type TrainedModel struct {
	ID              string
	Name            string
	ExperimentRunID string
	ScenarioType    ScenarioType
	Status          string
	CreatedAt       string
	Metadata        map[string]any
}

// identity keys must decode as strings or numbers
var identityKeys = map[string]bool{
	"id":                true,
	"experiment_run_id": true,
	"scenario_type":     true,
}

func (m *TrainedModel) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out TrainedModel
	var err error
	if out.ID, err = looseString(raw["id"]); err != nil {
		return fmt.Errorf("trained model id: %w", err)
	}
	if out.ExperimentRunID, err = looseString(raw["experiment_run_id"]); err != nil {
		return fmt.Errorf("trained model experiment_run_id: %w", err)
	}
	scenario, err := looseString(raw["scenario_type"])
	if err != nil {
		return fmt.Errorf("trained model scenario_type: %w", err)
	}
	out.ScenarioType = ScenarioType(scenario)

	// descriptive fields of any other shape stay in Metadata
	descriptive := map[string]*string{
		"name":       &out.Name,
		"status":     &out.Status,
		"created_at": &out.CreatedAt,
	}

	for key, value := range raw {
		if identityKeys[key] {
			continue
		}
		if field, ok := descriptive[key]; ok {
			if s, err := looseString(value); err == nil {
				*field = s
				continue
			}
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("trained model %s: %w", key, err)
		}
		if out.Metadata == nil {
			out.Metadata = make(map[string]any)
		}
		out.Metadata[key] = v
	}

	*m = out
	return nil
}

func (m TrainedModel) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(m.Metadata)+6)
	for key, value := range m.Metadata {
		flat[key] = value
	}
	flat["id"] = m.ID
	flat["experiment_run_id"] = m.ExperimentRunID
	flat["scenario_type"] = string(m.ScenarioType)
	if m.Name != "" {
		flat["name"] = m.Name
	}
	if m.Status != "" {
		flat["status"] = m.Status
	}
	if m.CreatedAt != "" {
		flat["created_at"] = m.CreatedAt
	}
	return json.Marshal(flat)
}

// looseString accepts a JSON string, number or null. Backends disagree on
// whether ids are integers or strings.
func looseString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// FilterByScenario keeps the models tagged with scenario, preserving order.
func FilterByScenario(models []TrainedModel, scenario ScenarioType) []TrainedModel {
	filtered := make([]TrainedModel, 0, len(models))
	for _, model := range models {
		if model.ScenarioType == scenario {
			filtered = append(filtered, model)
		}
	}
	return filtered
}
