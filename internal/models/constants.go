package models

type ScenarioType string

const (
	ScenarioERMBaseline             ScenarioType = "ERM_BASELINE"
	ScenarioGeneralizationChallenge ScenarioType = "GENERALIZATION_CHALLENGE"
	ScenarioDomainAdaptation        ScenarioType = "DOMAIN_ADAPTATION"
)

// known scenario tags; unknown tags are still carried verbatim
var KnownScenarios = map[ScenarioType]bool{
	ScenarioERMBaseline:             true,
	ScenarioGeneralizationChallenge: true,
	ScenarioDomainAdaptation:        true,
}

// Known reports whether s is one of the scenario tags above. Matching is
// exact; tags are not case-folded.
func (s ScenarioType) Known() bool {
	return KnownScenarios[s]
}

func KnownScenariosList() []string {
	return []string{
		string(ScenarioERMBaseline),
		string(ScenarioGeneralizationChallenge),
		string(ScenarioDomainAdaptation),
	}
}

const (
	DefaultStartTime = "00:00"
	DefaultEndTime   = "23:59"
)
