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

type EvaluateHandler struct {
	store    store.Store
	events   events.Client
	engine   *scoring.Engine
	learners *LearnerRegistry
}

func NewEvaluateHandler(s store.Store, ev events.Client, engine *scoring.Engine, lr *LearnerRegistry) *EvaluateHandler {
	return &EvaluateHandler{store: s, events: ev, engine: engine, learners: lr}
}

type EvaluateRequest struct {
	Options []*scoring.ConvenienceOption `json:"options"`
	Context scoring.Context              `json:"context"`

	// Weights override the session weights; required for the stateless
	// endpoint.
	Weights *scoring.WeightVector `json:"weights,omitempty"`
}

type EvaluateResponse struct {
	EvaluationID   uuid.UUID              `json:"evaluation_id,omitempty"`
	Results        []scoring.MCVResult    `json:"results"`
	Recommendation scoring.Recommendation `json:"recommendation"`
}

// Evaluate scores options under a session's learned weights and persists the
// breakdown for later explanation.
// POST /api/v1/sessions/{id}/evaluate
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	l, err := h.learners.For(r.Context(), h.store, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if l == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	weights := l.Weights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	results, err := h.engine.Evaluate(req.Options, req.Context, weights)
	if err != nil {
		writeError(w, err)
		return
	}

	eval := &store.Evaluation{SessionID: id, Context: req.Context, Results: results}
	if err := h.store.SaveEvaluation(r.Context(), eval); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	evaluationsTotal.Inc()
	mcvObserved.Observe(results[0].MCV)

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationCompleted(id.String()), events.EvaluationCompletedEvent{
			SessionID:    id.String(),
			EvaluationID: eval.ID.String(),
			TopOption:    results[0].Name,
			TopMCV:       results[0].MCV,
			Options:      len(results),
		})
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		EvaluationID:   eval.ID,
		Results:        results,
		Recommendation: scoring.DeriveRecommendation(results, l.Confidence()),
	})
}

// EvaluateStateless scores options with caller-supplied weights and persists
// nothing.
// POST /api/v1/evaluate
func (h *EvaluateHandler) EvaluateStateless(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Weights == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weights required"})
		return
	}

	results, err := h.engine.Evaluate(req.Options, req.Context, *req.Weights)
	if err != nil {
		writeError(w, err)
		return
	}

	evaluationsTotal.Inc()
	mcvObserved.Observe(results[0].MCV)

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Results:        results,
		Recommendation: scoring.DeriveRecommendation(results, 1.0),
	})
}

// Explain returns a persisted scoring breakdown.
// GET /api/v1/evaluations/{id}
func (h *EvaluateHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluation id"})
		return
	}
	eval, err := h.store.GetEvaluation(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if eval == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}
	writeJSON(w, http.StatusOK, eval)
}
