package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/events"
	"github.com/choicemetrics/convd/internal/scoring"
	"github.com/choicemetrics/convd/internal/store"
)

type SessionsHandler struct {
	store    store.Store
	events   events.Client
	learners *LearnerRegistry
	defaults scoring.WeightVector
}

func NewSessionsHandler(s store.Store, ev events.Client, lr *LearnerRegistry, defaults scoring.WeightVector) *SessionsHandler {
	return &SessionsHandler{store: s, events: ev, learners: lr, defaults: defaults}
}

type CreateSessionRequest struct {
	Name    string                `json:"name"`
	Weights *scoring.WeightVector `json:"weights,omitempty"`
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	weights := h.defaults
	if req.Weights != nil {
		weights = *req.Weights
	}
	if err := weights.Validate(); err != nil {
		writeError(w, err)
		return
	}

	sess := &store.Session{Name: req.Name, Weights: weights}
	if err := h.store.CreateSession(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSessionCreated(sess.ID.String()), events.SessionCreatedEvent{
			SessionID: sess.ID.String(),
			Name:      sess.Name,
			Weights:   sess.Weights,
		})
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Weights returns the session's current weight vector with learning
// confidence.
func (h *SessionsHandler) Weights(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	l, err := h.learners.For(r.Context(), h.store, sess.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":   sess.ID,
		"weights":      l.Weights(),
		"observations": l.Seen(),
		"confidence":   l.Confidence(),
	})
}

// ResetWeights restores a session to the configured default weights.
// Admin-only.
func (h *SessionsHandler) ResetWeights(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	l, err := h.learners.For(r.Context(), h.store, sess.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if err := l.Reset(h.defaults); err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.UpdateSessionWeights(r.Context(), sess.ID, h.defaults, 0); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if h.events != nil {
		_ = h.events.Publish(events.SubjectWeightsReset(sess.ID.String()), events.WeightsUpdatedEvent{
			SessionID: sess.ID.String(),
			Weights:   h.defaults,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": sess.ID, "weights": h.defaults})
}

// Observations lists a session's recorded choices, newest first.
func (h *SessionsHandler) Observations(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	obs, err := h.store.ListObservations(r.Context(), sess.ID, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if obs == nil {
		obs = []*store.Observation{}
	}
	writeJSON(w, http.StatusOK, obs)
}

func (h *SessionsHandler) loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return nil, false
	}
	sess, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return sess, true
}
