package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/scoring"
)

// MemoryStore keeps everything in process memory. It backs tests and lets
// the service run without a database for single-user experimentation.
type MemoryStore struct {
	mu           sync.RWMutex
	sessions     map[uuid.UUID]*Session
	observations map[uuid.UUID][]*Observation
	evaluations  map[uuid.UUID]*Evaluation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[uuid.UUID]*Session),
		observations: make(map[uuid.UUID][]*Observation),
		evaluations:  make(map[uuid.UUID]*Evaluation),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateSession(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = uuid.New()
	sess.CreatedAt = time.Now().UTC()
	sess.UpdatedAt = sess.CreatedAt
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		cp := *sess
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateSessionWeights(_ context.Context, id uuid.UUID, w scoring.WeightVector, observations int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return &scoring.ValidationError{Field: "session_id", Value: id, Reason: "not found"}
	}
	sess.Weights = w
	sess.Observations = observations
	sess.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) RecordObservation(_ context.Context, o *Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now().UTC()
	cp := *o
	s.observations[o.SessionID] = append(s.observations[o.SessionID], &cp)
	return nil
}

func (s *MemoryStore) ListObservations(_ context.Context, sessionID uuid.UUID, limit int) ([]*Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	all := s.observations[sessionID]
	out := make([]*Observation, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *all[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) SaveEvaluation(_ context.Context, e *Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now().UTC()
	cp := *e
	s.evaluations[e.ID] = &cp
	return nil
}

func (s *MemoryStore) GetEvaluation(_ context.Context, id uuid.UUID) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.evaluations[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}
