package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTrainedModelUnmarshal(t *testing.T) {
	input := `{"id":17,"name":"nnPU-run","experiment_run_id":"run-1","scenario_type":"ERM_BASELINE",
		"status":"completed","created_at":"2025-08-10T10:00:00Z","metrics":{"f1":0.91},"model_path":"/tmp/m.pt"}`

	var m TrainedModel
	if err := json.Unmarshal([]byte(input), &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if m.ID != "17" {
		t.Fatalf("expected numeric id to become \"17\", got %q", m.ID)
	}
	if m.ScenarioType != ScenarioERMBaseline || m.ExperimentRunID != "run-1" || m.Status != "completed" {
		t.Fatalf("unexpected typed fields: %+v", m)
	}
	if m.Metadata["model_path"] != "/tmp/m.pt" {
		t.Fatalf("expected model_path in metadata, got %v", m.Metadata)
	}
	if _, ok := m.Metadata["id"]; ok {
		t.Fatal("typed keys must not be duplicated in metadata")
	}
}

func TestTrainedModelRoundTrip(t *testing.T) {
	input := `{"created_at":"c","experiment_run_id":"r","id":"a","metrics":{"f1":0.5},"scenario_type":"DOMAIN_ADAPTATION"}`

	var m TrainedModel
	if err := json.Unmarshal([]byte(input), &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var want, got map[string]any
	_ = json.Unmarshal([]byte(input), &want)
	_ = json.Unmarshal(out, &got)
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("record changed in transit:\n got %s\nwant %s", out, input)
	}
}

func TestTrainedModelUnmarshalRejectsBadID(t *testing.T) {
	var m TrainedModel
	if err := json.Unmarshal([]byte(`{"id":{"nested":true}}`), &m); err == nil {
		t.Fatal("expected error for object id")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &m); err == nil {
		t.Fatal("expected error for non-object record")
	}
}

func TestFilterByScenario(t *testing.T) {
	list := []TrainedModel{
		{ID: "1", ScenarioType: "A"},
		{ID: "2", ScenarioType: "B"},
		{ID: "3", ScenarioType: "A"},
	}

	got := FilterByScenario(list, "A")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("expected ids 1,3 in order, got %+v", got)
	}

	if got := FilterByScenario(nil, "A"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestTrainedModelUnmarshalKeepsOddDescriptiveFields(t *testing.T) {
	input := `{"id":"m2","experiment_run_id":"run-1","scenario_type":"ERM_BASELINE",
		"name":"second","status":{"state":"done"},"created_at":true}`

	var m TrainedModel
	if err := json.Unmarshal([]byte(input), &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if m.ID != "m2" || m.Name != "second" {
		t.Fatalf("unexpected typed fields: %+v", m)
	}
	if m.Status != "" || m.CreatedAt != "" {
		t.Fatalf("expected non-scalar fields to stay untyped, got %+v", m)
	}
	if !reflect.DeepEqual(m.Metadata["status"], map[string]any{"state": "done"}) || m.Metadata["created_at"] != true {
		t.Fatalf("expected odd fields in metadata, got %v", m.Metadata)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var want, got map[string]any
	_ = json.Unmarshal([]byte(input), &want)
	_ = json.Unmarshal(out, &got)
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("record changed in transit:\n got %s\nwant %s", out, input)
	}
}

func TestFloorSelectionUnmarshal(t *testing.T) {
	var params FilteringParameters
	input := `{"selected_floors_by_building":{"A":[1,"2",null],"B":[]}}`
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := FloorSelection{"A": {"1", "2"}, "B": {}}
	if !reflect.DeepEqual(params.SelectedFloorsByBuilding, want) {
		t.Fatalf("unexpected floors: %#v", params.SelectedFloorsByBuilding)
	}

	params = FilteringParameters{}
	if err := json.Unmarshal([]byte(`{"selected_floors_by_building":null}`), &params); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if params.SelectedFloorsByBuilding != nil {
		t.Fatalf("expected nil floors for null, got %#v", params.SelectedFloorsByBuilding)
	}

	if err := json.Unmarshal([]byte(`{"selected_floors_by_building":{"A":[{"n":1}]}}`), &params); err == nil {
		t.Fatal("expected error for object floor")
	}
}

func TestScenarioKnown(t *testing.T) {
	if !ScenarioDomainAdaptation.Known() {
		t.Fatal("expected DOMAIN_ADAPTATION to be known")
	}
	if ScenarioType("erm_baseline").Known() {
		t.Fatal("scenario tags are case-sensitive")
	}
}
