package domain

import dErrors "medblock/pkg/domain-errors"

// ResourceType names a FHIR record category. The set mirrors the resources
// the records service persists.
type ResourceType string

const (
	ResourceObservation       ResourceType = "Observation"
	ResourceDiagnosticReport  ResourceType = "DiagnosticReport"
	ResourceMedicationRequest ResourceType = "MedicationRequest"
	ResourceEncounter         ResourceType = "Encounter"
)

var knownResourceTypes = map[ResourceType]bool{
	ResourceObservation:       true,
	ResourceDiagnosticReport:  true,
	ResourceMedicationRequest: true,
	ResourceEncounter:         true,
}

// ParseResourceType rejects resource types the records service does not
// persist.
func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if !knownResourceTypes[rt] {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown resource type %q", s)
	}
	return rt, nil
}

// Action is the operation an accessor performs on a record.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var knownActions = map[Action]bool{
	ActionRead:   true,
	ActionCreate: true,
	ActionUpdate: true,
	ActionDelete: true,
}

// ParseAction validates an access action at a trust boundary.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !knownActions[a] {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "unknown action %q", s)
	}
	return a, nil
}
