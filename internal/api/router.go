package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/choicemetrics/convd/internal/config"
	"github.com/choicemetrics/convd/internal/events"
	"github.com/choicemetrics/convd/internal/scoring"
	"github.com/choicemetrics/convd/internal/sim"
	"github.com/choicemetrics/convd/internal/store"
)

func NewRouter(s store.Store, ev events.Client, engine *scoring.Engine, simulator *sim.Simulator, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	learners := NewLearnerRegistry(engine, cfg.Learning, logger)
	if ev != nil {
		// Weight changes published by other replicas invalidate this
		// replica's cached learners.
		if err := ev.Subscribe(events.SubjectWeightsAll, learners.invalidateOnWeightEvent); err != nil {
			logger.Warn("weight invalidation subscription failed", "error", err)
		}
	}

	sessions := NewSessionsHandler(s, ev, learners, cfg.Scoring.Weights)
	evaluate := NewEvaluateHandler(s, ev, engine, learners)
	choices := NewChoicesHandler(s, ev, learners)
	simulate := NewSimulateHandler(s, ev, simulator, learners, cfg.Simulation.DefaultRuns, cfg.Simulation.DefaultDelta)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluate", evaluate.EvaluateStateless)
		r.Get("/evaluations/{id}", evaluate.Explain)

		r.Post("/sessions", sessions.Create)
		r.Get("/sessions", sessions.List)
		r.Get("/sessions/{id}", sessions.Get)
		r.Get("/sessions/{id}/weights", sessions.Weights)
		r.Get("/sessions/{id}/observations", sessions.Observations)

		r.Post("/sessions/{id}/evaluate", evaluate.Evaluate)
		r.Post("/sessions/{id}/choices", choices.Record)
		r.Post("/sessions/{id}/simulate", simulate.Simulate)
		r.Post("/sessions/{id}/sensitivity", simulate.Sensitivity)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Post("/sessions/{id}/weights/reset", sessions.ResetWeights)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
