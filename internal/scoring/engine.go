package scoring

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// MCVResult is the scored output for one option.
type MCVResult struct {
	OptionID     uuid.UUID        `json:"option_id,omitempty"`
	Name         string           `json:"name"`
	MCV          float64          `json:"mcv"`
	Rank         int              `json:"rank"`
	Scores       ScoreVector      `json:"scores"`
	Multipliers  MultiplierVector `json:"multipliers"`
	Dimensions   []DimensionScore `json:"dimensions"`
	Frontier     bool             `json:"frontier"`
	ClearWinner  bool             `json:"clear_winner,omitempty"`
	MonetaryCost float64          `json:"monetary_cost"`

	// ZeroMCV marks a degenerate option whose contribution fractions are
	// undefined; they are reported as a zero vector instead of NaN.
	ZeroMCV  bool     `json:"zero_mcv,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Engine combines the sub-benefit calculators, the ContextEngine, and a
// weight vector into Master Convenience Values. It is stateless and safe for
// concurrent use.
type Engine struct {
	params  CalcParams
	context *ContextEngine
	logger  *slog.Logger
}

// NewEngine creates an Engine. The calculator params are validated once here
// so every later evaluation can trust them.
func NewEngine(params CalcParams, ce *ContextEngine, logger *slog.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params, context: ce, logger: logger}, nil
}

// Params returns the engine's calculator tuning.
func (e *Engine) Params() CalcParams { return e.params }

// Scores runs all five calculators for one option. The option must already
// be validated.
func (e *Engine) Scores(o *ConvenienceOption) (ScoreVector, []DimensionScore) {
	dims := []DimensionScore{
		TimeScore(o, e.params),
		StressScore(o, e.params),
		OpportunityScore(o, e.params),
		ComfortScore(o, e.params),
		ReliabilityScore(o, e.params),
	}
	sv := ScoreVector{
		Time:        dims[0].Score,
		Stress:      dims[1].Score,
		Opportunity: dims[2].Score,
		Comfort:     dims[3].Score,
		Reliability: dims[4].Score,
	}
	for _, d := range dims {
		if d.Clamped && e.logger != nil {
			e.logger.Warn("sub-benefit score clamped", "dimension", d.Dimension, "reason", d.Reason)
		}
	}
	return sv, dims
}

// Multipliers exposes the context engine for callers that share one
// multiplier vector across several scoring passes.
func (e *Engine) Multipliers(ctx Context) (MultiplierVector, []string, error) {
	return e.context.Multipliers(ctx)
}

// Evaluate scores every option under the shared context and weights and
// returns the ranked results. Ranking is by MCV descending, ties broken by
// lower monetary cost, then by input order.
func (e *Engine) Evaluate(options []*ConvenienceOption, ctx Context, weights WeightVector) ([]MCVResult, error) {
	if len(options) == 0 {
		return nil, validationErr("options", 0, "at least one option required")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	for _, o := range options {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	mult, warnings, err := e.context.Multipliers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MCVResult, len(options))
	for i, o := range options {
		results[i] = e.scoreOption(o, mult, weights)
		results[i].Warnings = warnings
	}

	rankResults(results)
	markFrontier(results)
	return results, nil
}

// scoreOption computes the MCV and per-dimension breakdown for one option
// under an already-computed multiplier vector.
func (e *Engine) scoreOption(o *ConvenienceOption, mult MultiplierVector, weights WeightVector) MCVResult {
	sv, dims := e.Scores(o)

	wl := weights.AsList()
	ml := mult.AsList()
	var mcv float64
	for i := range dims {
		dims[i].Weight = wl[i]
		dims[i].Multiplier = ml[i]
		dims[i].Weighted = dims[i].Score * wl[i] * ml[i]
		mcv += dims[i].Weighted
	}

	res := MCVResult{
		OptionID:     o.ID,
		Name:         o.Name,
		MCV:          mcv,
		Scores:       sv,
		Multipliers:  mult,
		Dimensions:   dims,
		MonetaryCost: o.MonetaryCost,
	}

	// Contribution fractions sum to 1 unless the MCV itself is zero, in
	// which case they are reported as an all-zero vector with a flag.
	if mcv == 0 {
		res.ZeroMCV = true
	} else {
		for i := range dims {
			dims[i].Contribution = dims[i].Weighted / mcv
		}
	}
	return res
}

// rankResults sorts in place and assigns 1-based ranks.
func rankResults(results []MCVResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MCV != results[j].MCV {
			return results[i].MCV > results[j].MCV
		}
		return results[i].MonetaryCost < results[j].MonetaryCost
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}
