package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/events"
	"github.com/choicemetrics/convd/internal/learning"
	"github.com/choicemetrics/convd/internal/store"
)

type ChoicesHandler struct {
	store    store.Store
	events   events.Client
	learners *LearnerRegistry
}

func NewChoicesHandler(s store.Store, ev events.Client, lr *LearnerRegistry) *ChoicesHandler {
	return &ChoicesHandler{store: s, events: ev, learners: lr}
}

type RecordChoicesRequest struct {
	Observations []*learning.ChoiceObservation `json:"observations"`
}

// Record applies one or more choice observations to a session's weights as a
// single mini-batch and persists both the observations and the updated
// vector.
// POST /api/v1/sessions/{id}/choices
func (h *ChoicesHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}
	var req RecordChoicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Observations) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one observation required"})
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

	res, err := l.RecordBatch(req.Observations)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.UpdateSessionWeights(r.Context(), id, res.Weights, res.Seen); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	choiceObservations.WithLabelValues("applied").Add(float64(res.Applied))
	choiceObservations.WithLabelValues("skipped").Add(float64(res.Skipped))

	for _, obs := range req.Observations {
		rec := &store.Observation{
			SessionID: id,
			Chosen:    obs.Chosen.Name,
			Rejected:  obs.Rejected.Name,
			Context:   obs.Context,
			Payload: map[string]interface{}{
				"chosen":   obs.Chosen,
				"rejected": obs.Rejected,
			},
			Applied: res.Applied > 0,
		}
		if err := h.store.RecordObservation(r.Context(), rec); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if h.events != nil {
			_ = h.events.Publish(events.SubjectChoiceRecorded(id.String()), events.ChoiceRecordedEvent{
				SessionID: id.String(),
				Chosen:    obs.Chosen.Name,
				Rejected:  obs.Rejected.Name,
				Applied:   rec.Applied,
			})
		}
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectWeightsUpdated(id.String()), events.WeightsUpdatedEvent{
			SessionID:    id.String(),
			Weights:      res.Weights,
			Observations: res.Seen,
			Confidence:   res.Confidence,
		})
	}

	writeJSON(w, http.StatusOK, res)
}
