package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/events"
	"github.com/choicemetrics/convd/internal/learning"
	"github.com/choicemetrics/convd/internal/scoring"
	"github.com/choicemetrics/convd/internal/store"
)

// LearnerRegistry hands out one Learner per session, rebuilt from persisted
// weights on first touch. The Learner itself serializes weight updates, so
// the registry only guards the map.
type LearnerRegistry struct {
	mu       sync.Mutex
	learners map[uuid.UUID]*learning.Learner

	engine *scoring.Engine
	params learning.Params
	logger *slog.Logger
}

func NewLearnerRegistry(engine *scoring.Engine, params learning.Params, logger *slog.Logger) *LearnerRegistry {
	return &LearnerRegistry{
		learners: make(map[uuid.UUID]*learning.Learner),
		engine:   engine,
		params:   params,
		logger:   logger,
	}
}

// For returns the learner for a session, loading it from the store when this
// process has not seen the session yet. Returns (nil, nil) when the session
// does not exist.
func (r *LearnerRegistry) For(ctx context.Context, s store.Store, sessionID uuid.UUID) (*learning.Learner, error) {
	r.mu.Lock()
	if l, ok := r.learners[sessionID]; ok {
		r.mu.Unlock()
		return l, nil
	}
	r.mu.Unlock()

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	l, err := learning.NewLearner(r.engine, sess.Weights, r.params, r.logger)
	if err != nil {
		return nil, err
	}
	l.RestoreSeen(sess.Observations)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.learners[sessionID]; ok {
		return existing, nil
	}
	r.learners[sessionID] = l
	return l, nil
}

// Drop forgets a session's learner, forcing a reload from the store.
func (r *LearnerRegistry) Drop(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.learners, sessionID)
}

// invalidateOnWeightEvent drops the cached learner for a session whose
// weights changed, so the next touch reloads the persisted state. Subscribed
// to convd.weights.> at router construction; with several replicas behind one
// store, an update or admin reset in one replica invalidates the others.
func (r *LearnerRegistry) invalidateOnWeightEvent(subject string, _ []byte) {
	id, err := uuid.Parse(events.SessionIDFromSubject(subject))
	if err != nil {
		return
	}
	if r.logger != nil {
		r.logger.Debug("dropping cached learner after weight event", "session_id", id, "subject", subject)
	}
	r.Drop(id)
}
