package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/events"
	"github.com/choicemetrics/convd/internal/scoring"
	"github.com/choicemetrics/convd/internal/sim"
	"github.com/choicemetrics/convd/internal/store"
)

type SimulateHandler struct {
	store        store.Store
	events       events.Client
	simulator    *sim.Simulator
	learners     *LearnerRegistry
	defaultRuns  int
	defaultDelta float64
}

func NewSimulateHandler(s store.Store, ev events.Client, simulator *sim.Simulator, lr *LearnerRegistry, defaultRuns int, defaultDelta float64) *SimulateHandler {
	return &SimulateHandler{
		store:        s,
		events:       ev,
		simulator:    simulator,
		learners:     lr,
		defaultRuns:  defaultRuns,
		defaultDelta: defaultDelta,
	}
}

type SimulateRequest struct {
	Options     []*scoring.ConvenienceOption `json:"options"`
	Context     scoring.Context              `json:"context"`
	Uncertainty sim.UncertaintySpec          `json:"uncertainty"`
	Runs        int                          `json:"runs,omitempty"`
	MasterSeed  int64                        `json:"master_seed,omitempty"`
}

// Simulate runs the Monte Carlo analysis under a session's learned weights.
// POST /api/v1/sessions/{id}/simulate
func (h *SimulateHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Runs == 0 {
		req.Runs = h.defaultRuns
	}
	if req.MasterSeed == 0 {
		req.MasterSeed = time.Now().UnixNano()
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

	start := time.Now()
	results, err := h.simulator.Run(r.Context(), req.Options, req.Context, l.Weights(), req.Uncertainty, req.Runs, req.MasterSeed)
	if err != nil {
		writeError(w, err)
		return
	}

	simulationRuns.Add(float64(req.Runs))
	simulationDuration.Observe(time.Since(start).Seconds())

	if h.events != nil {
		_ = h.events.Publish(events.SubjectSimulationCompleted(id.String()), events.SimulationCompletedEvent{
			SessionID:  id.String(),
			Runs:       req.Runs,
			Options:    len(req.Options),
			MasterSeed: req.MasterSeed,
			Timestamp:  time.Now().UTC(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"master_seed": req.MasterSeed,
		"runs":        req.Runs,
		"results":     results,
	})
}

type SensitivityRequest struct {
	Option  *scoring.ConvenienceOption `json:"option"`
	Context scoring.Context            `json:"context"`
	Delta   float64                    `json:"delta,omitempty"`
	Inputs  []sim.Input                `json:"inputs,omitempty"`
}

// Sensitivity runs the what-if analysis under a session's learned weights.
// POST /api/v1/sessions/{id}/sensitivity
func (h *SimulateHandler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Option == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "option required"})
		return
	}
	if req.Delta == 0 {
		req.Delta = h.defaultDelta
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

	results, err := h.simulator.Sensitivity(req.Option, req.Context, l.Weights(), sim.PerturbationSpec{
		Delta:  req.Delta,
		Inputs: req.Inputs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delta":   req.Delta,
		"results": results,
	})
}
