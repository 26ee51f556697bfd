package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/scoring"
)

// Session is one independent decision-maker's preference state. Each session
// owns its weight vector; evaluations and recorded choices reference it.
type Session struct {
	ID           uuid.UUID            `json:"session_id"`
	Name         string               `json:"name"`
	Weights      scoring.WeightVector `json:"weights"`
	Observations int                  `json:"observations"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Observation is a persisted choice record. The payload keeps the full
// option attributes for audit; the core never reads it back.
type Observation struct {
	ID        uuid.UUID              `json:"observation_id"`
	SessionID uuid.UUID              `json:"session_id"`
	Chosen    string                 `json:"chosen"`
	Rejected  string                 `json:"rejected"`
	Context   scoring.Context        `json:"context"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Applied   bool                   `json:"applied"`
	CreatedAt time.Time              `json:"created_at"`
}

// Evaluation is a persisted scoring result, kept so breakdowns can be
// re-explained after the fact.
type Evaluation struct {
	ID        uuid.UUID           `json:"evaluation_id"`
	SessionID uuid.UUID           `json:"session_id"`
	Context   scoring.Context     `json:"context"`
	Results   []scoring.MCVResult `json:"results"`
	CreatedAt time.Time           `json:"created_at"`
}

// Store persists sessions, observations, and evaluations.
type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context) ([]*Session, error)
	UpdateSessionWeights(ctx context.Context, id uuid.UUID, w scoring.WeightVector, observations int) error

	RecordObservation(ctx context.Context, o *Observation) error
	ListObservations(ctx context.Context, sessionID uuid.UUID, limit int) ([]*Observation, error)

	SaveEvaluation(ctx context.Context, e *Evaluation) error
	GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error)

	Close() error
}
