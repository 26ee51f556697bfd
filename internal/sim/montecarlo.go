package sim

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/choicemetrics/convd/internal/scoring"
)

// SimulationResult summarises one option's MCV distribution across all runs.
type SimulationResult struct {
	Name     string  `json:"name"`
	Runs     int     `json:"runs"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Median   float64 `json:"median"`
	CILow    float64 `json:"ci_low"`
	CIHigh   float64 `json:"ci_high"`
	RankOne  float64 `json:"rank_one_probability"`
}

// Simulator runs Monte Carlo and sensitivity analyses on top of the scoring
// engine.
type Simulator struct {
	engine  *scoring.Engine
	workers int
	logger  *slog.Logger
}

// NewSimulator creates a Simulator. workers <= 0 means one worker per CPU.
func NewSimulator(engine *scoring.Engine, workers int, logger *slog.Logger) *Simulator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Simulator{engine: engine, workers: workers, logger: logger}
}

// Run executes the Monte Carlo analysis: runs independent samples of every
// uncertain input, a full scoring pass per run, and an order-independent
// reduction into per-option summaries.
//
// Every run seeds its own generator from the master seed and the run index,
// so results are bit-identical for a given seed no matter how runs are
// spread across workers. Cancelling the context abandons the run-set;
// partial results are discarded, no state is corrupted.
func (s *Simulator) Run(ctx context.Context, options []*scoring.ConvenienceOption, sctx scoring.Context, weights scoring.WeightVector, spec UncertaintySpec, runs int, masterSeed int64) ([]SimulationResult, error) {
	// Fail fast: a partially-invalid configuration cannot produce a
	// meaningful distribution, so nothing starts until everything checks.
	if runs <= 0 {
		return nil, &ConfigurationError{Param: "runs", Reason: "must be positive"}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(options))
	for _, o := range options {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		// Uncertainty bindings and per-run MCVs are keyed by option name;
		// two options sharing one would silently collapse into each other.
		if names[o.Name] {
			return nil, &scoring.ValidationError{Field: "options", Value: o.Name, Reason: "duplicate option name"}
		}
		names[o.Name] = true
	}
	if _, _, err := s.engine.Multipliers(sctx); err != nil {
		return nil, err
	}

	start := time.Now()
	nOpts := len(options)

	// mcvs[run][option], filled independently per run.
	mcvs := make([][]float64, runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for run := 0; run < runs; run++ {
		run := run
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.oneRun(options, sctx, weights, spec, runSeed(masterSeed, run))
			if err != nil {
				return err
			}
			mcvs[run] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := reduce(options, mcvs, nOpts, runs)
	if s.logger != nil {
		s.logger.Info("monte carlo complete",
			"runs", runs,
			"options", nOpts,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return results, nil
}

// oneRun samples every uncertain input onto option copies and scores them.
func (s *Simulator) oneRun(options []*scoring.ConvenienceOption, sctx scoring.Context, weights scoring.WeightVector, spec UncertaintySpec, seed int64) ([]float64, error) {
	r := rand.New(rand.NewSource(seed))

	sampled := make([]*scoring.ConvenienceOption, len(options))
	for i, o := range options {
		cp := *o
		// Draw order is fixed: options in input order, spec entries in
		// declaration order. This is what makes runs reproducible.
		for _, id := range spec {
			if id.Option != "" && id.Option != o.Name {
				continue
			}
			if err := apply(&cp, id.Input, id.Distribution.Sample(r)); err != nil {
				return nil, err
			}
		}
		sampled[i] = &cp
	}

	evaluated, err := s.engine.Evaluate(sampled, sctx, weights)
	if err != nil {
		return nil, err
	}
	// Evaluate returns ranked order; map MCVs back to input order by name.
	// Run rejects duplicate names, so the mapping is unambiguous.
	byName := make(map[string]float64, len(evaluated))
	for _, res := range evaluated {
		byName[res.Name] = res.MCV
	}
	row := make([]float64, len(options))
	for i, o := range options {
		row[i] = byName[o.Name]
	}
	return row, nil
}

// reduce folds the per-run MCV matrix into per-option summary statistics.
// Mean, variance, and rank counts are commutative and associative, so the
// outcome is independent of how runs were distributed.
func reduce(options []*scoring.ConvenienceOption, mcvs [][]float64, nOpts, runs int) []SimulationResult {
	results := make([]SimulationResult, nOpts)
	perOption := make([][]float64, nOpts)
	for i := range perOption {
		perOption[i] = make([]float64, runs)
	}
	rankOne := make([]int, nOpts)

	for run := 0; run < runs; run++ {
		row := mcvs[run]
		best := 0
		for i := 0; i < nOpts; i++ {
			perOption[i][run] = row[i]
			// Same tie-break as ranking: lower monetary cost, then input order.
			if row[i] > row[best] ||
				(row[i] == row[best] && options[i].MonetaryCost < options[best].MonetaryCost) {
				best = i
			}
		}
		rankOne[best]++
	}

	for i := 0; i < nOpts; i++ {
		vals := perOption[i]
		var sum float64
		for _, v := range vals {
			sum += v
		}
		mean := sum / float64(runs)
		var variance float64
		for _, v := range vals {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(runs)
		stdev := math.Sqrt(variance)

		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		median := sorted[runs/2]
		if runs%2 == 0 {
			median = (sorted[runs/2-1] + sorted[runs/2]) / 2
		}

		se := stdev / math.Sqrt(float64(runs))
		results[i] = SimulationResult{
			Name:     options[i].Name,
			Runs:     runs,
			Mean:     mean,
			Variance: variance,
			StdDev:   stdev,
			Median:   median,
			CILow:    mean - 1.96*se,
			CIHigh:   mean + 1.96*se,
			RankOne:  float64(rankOne[i]) / float64(runs),
		}
	}
	return results
}

// runSeed derives a per-run seed from the master seed and run index using a
// splitmix64 finalizer, so neighbouring indices produce uncorrelated streams.
func runSeed(master int64, run int) int64 {
	z := uint64(master) + uint64(run+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}
