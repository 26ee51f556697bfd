package events

import "strings"

const (
	StreamName   = "CONVD_EVENTS"
	StreamMaxAge = "720h" // 30 days

	// SubjectWeightsAll matches every weight change regardless of session.
	SubjectWeightsAll = "convd.weights.>"
)

func SubjectSessionCreated(sessionID string) string { return "convd.session." + sessionID + ".created" }

func SubjectEvaluationCompleted(sessionID string) string {
	return "convd.evaluation." + sessionID + ".completed"
}

func SubjectChoiceRecorded(sessionID string) string { return "convd.choice." + sessionID + ".recorded" }
func SubjectWeightsUpdated(sessionID string) string { return "convd.weights." + sessionID + ".updated" }
func SubjectWeightsReset(sessionID string) string   { return "convd.weights." + sessionID + ".reset" }

func SubjectSimulationCompleted(sessionID string) string {
	return "convd.simulation." + sessionID + ".completed"
}

// SessionIDFromSubject extracts the entity ID from a subject of the form
// convd.<category>.<id>.<verb>. Returns "" for anything else.
func SessionIDFromSubject(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != "convd" {
		return ""
	}
	return parts[2]
}
