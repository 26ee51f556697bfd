package events

import (
	"time"

	"github.com/choicemetrics/convd/internal/scoring"
)

type SessionCreatedEvent struct {
	SessionID string               `json:"session_id"`
	Name      string               `json:"name"`
	Weights   scoring.WeightVector `json:"weights"`
}

type EvaluationCompletedEvent struct {
	SessionID    string  `json:"session_id"`
	EvaluationID string  `json:"evaluation_id,omitempty"`
	TopOption    string  `json:"top_option"`
	TopMCV       float64 `json:"top_mcv"`
	Options      int     `json:"options"`
}

type ChoiceRecordedEvent struct {
	SessionID string `json:"session_id"`
	Chosen    string `json:"chosen"`
	Rejected  string `json:"rejected"`
	Applied   bool   `json:"applied"`
}

type WeightsUpdatedEvent struct {
	SessionID    string               `json:"session_id"`
	Weights      scoring.WeightVector `json:"weights"`
	Observations int                  `json:"observations"`
	Confidence   float64              `json:"confidence"`
}

type SimulationCompletedEvent struct {
	SessionID  string    `json:"session_id"`
	Runs       int       `json:"runs"`
	Options    int       `json:"options"`
	MasterSeed int64     `json:"master_seed"`
	Timestamp  time.Time `json:"timestamp"`
}
