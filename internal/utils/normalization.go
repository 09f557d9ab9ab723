package utils

import "strings"

// NormalizeScenario trims query input. Case is kept: the backend's tags
// are compared exactly.
func NormalizeScenario(scenario string) string {
	return strings.TrimSpace(scenario)
}

func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
