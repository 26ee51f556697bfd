package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convd_evaluations_total",
		Help: "Number of evaluation requests scored.",
	})

	mcvObserved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convd_evaluation_mcv",
		Help:    "Distribution of top-ranked Master Convenience Values.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 20),
	})

	choiceObservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convd_choice_observations_total",
		Help: "Recorded choice observations by learning outcome.",
	}, []string{"outcome"})

	simulationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convd_simulation_runs_total",
		Help: "Total Monte Carlo runs executed.",
	})

	simulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convd_simulation_duration_seconds",
		Help:    "Wall time of Monte Carlo run-sets.",
		Buckets: prometheus.DefBuckets,
	})
)
