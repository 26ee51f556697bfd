package scoring

import (
	"fmt"
	"math"
)

// TimeEconomics models what the decision-maker's time is worth. The hourly
// rate is derived from annual income and work hours with an overtime premium,
// floored at MinimumRate and scaled by a productivity factor.
type TimeEconomics struct {
	AnnualIncome       float64 `yaml:"annual_income"`
	AnnualWorkHours    float64 `yaml:"annual_work_hours"`
	OvertimePremium    float64 `yaml:"overtime_premium"`
	MinimumRate        float64 `yaml:"minimum_rate"`
	ProductivityFactor float64 `yaml:"productivity_factor"`
}

// HourlyRate returns the base hourly rate including the overtime premium.
func (e TimeEconomics) HourlyRate() float64 {
	hours := e.AnnualWorkHours
	if hours <= 0 {
		hours = 1
	}
	return e.AnnualIncome / hours * (1.0 + e.OvertimePremium)
}

// EffectiveRate returns max(hourly, minimum) scaled by productivity.
func (e TimeEconomics) EffectiveRate() float64 {
	return math.Max(e.HourlyRate(), e.MinimumRate) * e.ProductivityFactor
}

// OpportunityRates hold the value per freed minute for each activity category.
type OpportunityRates struct {
	Work    float64 `yaml:"work"`
	Leisure float64 `yaml:"leisure"`
	Family  float64 `yaml:"family"`
	Health  float64 `yaml:"health"`
}

// Rate returns the per-minute value for a category.
func (r OpportunityRates) Rate(c ActivityCategory) float64 {
	switch c {
	case ActivityWork:
		return r.Work
	case ActivityLeisure:
		return r.Leisure
	case ActivityFamily:
		return r.Family
	case ActivityHealth:
		return r.Health
	}
	return 0
}

// ComfortWeights weight the comfort descriptors in the comfort score.
type ComfortWeights struct {
	Ergonomics float64 `yaml:"ergonomics"`
	Ambiance   float64 `yaml:"ambiance"`
	Control    float64 `yaml:"control"`
}

// CalcParams hold the tunable curve constants for the sub-benefit
// calculators. The exact curve shapes in the source framework are
// configuration, not code, so all saturation constants and reference
// ceilings live here.
type CalcParams struct {
	// Time: saturation constant of 1-exp(-t/tau) in minutes, and the cost
	// reference used when the time value itself is zero.
	TimeSaturationMinutes float64
	CostReference         float64
	Econ                  TimeEconomics

	// Stress: ceiling that normalizes relief x situational x tolerance.
	StressCeiling float64

	// Opportunity: per-minute category rates and the reference ceiling (in
	// value units) that maps the weighted sum onto [0, 1].
	Opportunity        OpportunityRates
	OpportunityCeiling float64

	// Comfort descriptor weights; normalized internally.
	Comfort ComfortWeights
}

// DefaultCalcParams returns the standard calculator tuning.
func DefaultCalcParams() CalcParams {
	return CalcParams{
		TimeSaturationMinutes: 45,
		CostReference:         20,
		Econ: TimeEconomics{
			AnnualIncome:       60000,
			AnnualWorkHours:    2000,
			MinimumRate:        15,
			ProductivityFactor: 1.0,
		},
		StressCeiling:      1.0,
		Opportunity:        OpportunityRates{Work: 0.50, Leisure: 0.30, Family: 0.40, Health: 0.35},
		OpportunityCeiling: 25,
		Comfort:            ComfortWeights{Ergonomics: 0.4, Ambiance: 0.3, Control: 0.3},
	}
}

// Validate rejects parameter sets that cannot produce commensurable scores.
func (p CalcParams) Validate() error {
	if p.TimeSaturationMinutes <= 0 {
		return validationErr("params.time_saturation_minutes", p.TimeSaturationMinutes, "must be positive")
	}
	if p.CostReference <= 0 {
		return validationErr("params.cost_reference", p.CostReference, "must be positive")
	}
	if p.StressCeiling <= 0 {
		return validationErr("params.stress_ceiling", p.StressCeiling, "must be positive")
	}
	if p.OpportunityCeiling <= 0 {
		return validationErr("params.opportunity_ceiling", p.OpportunityCeiling, "must be positive")
	}
	if w := p.Comfort.Ergonomics + p.Comfort.Ambiance + p.Comfort.Control; w <= 0 {
		return validationErr("params.comfort", w, "descriptor weights must sum above 0")
	}
	return nil
}

// --- Sub-benefit calculators ---
//
// Each calculator is pure, validates nothing (the option is validated once at
// the engine boundary), and returns a score in [0, 1]. When a formula would
// leave the unit interval the score is clamped and the DimensionScore is
// flagged, which defends against misconfigured reference ceilings.

// TimeScore applies a diminishing-returns transform to net time saved,
// discounted by the monetary cost relative to the value of the saved time.
func TimeScore(o *ConvenienceOption, p CalcParams) DimensionScore {
	saved := o.TimeSavedMinutes
	base := 1 - math.Exp(-saved/p.TimeSaturationMinutes)

	// Value of the saved time in currency units; the cost penalty compares
	// what the option costs against what the time is worth.
	value := p.Econ.EffectiveRate() * saved / 60.0
	penalty := 1.0
	if o.MonetaryCost > 0 {
		denom := value
		if denom <= 0 {
			denom = p.CostReference
		}
		penalty = denom / (denom + o.MonetaryCost)
	}

	return flagged("time", base*penalty, "saturating time transform with cost penalty")
}

// StressScore converts the baseline stress multiplier into a relief
// magnitude, amplified by situational multipliers and stress tolerance, then
// normalized against the configured ceiling.
func StressScore(o *ConvenienceOption, p CalcParams) DimensionScore {
	relief := math.Max(0, 1-o.BaselineStressMultiplier)
	raw := relief * o.situational() * o.toleranceFactor() / p.StressCeiling
	return flagged("stress", raw, "relief x situation x tolerance")
}

// OpportunityScore values freed time by allocation profile and per-category
// rates, normalized against the reference ceiling.
func OpportunityScore(o *ConvenienceOption, p CalcParams) DimensionScore {
	var value float64
	for _, c := range ActivityCategories {
		value += o.TimeSavedMinutes * o.TimeAllocation.Fraction(c) * p.Opportunity.Rate(c)
	}
	return flagged("opportunity", value/p.OpportunityCeiling, "allocated time value vs ceiling")
}

// ComfortScore is a weighted average of the ergonomic and ambiance
// descriptors.
func ComfortScore(o *ConvenienceOption, p CalcParams) DimensionScore {
	total := p.Comfort.Ergonomics + p.Comfort.Ambiance + p.Comfort.Control
	avg := (o.Ergonomics*p.Comfort.Ergonomics + o.Ambiance*p.Comfort.Ambiance + o.Control*p.Comfort.Control) / total
	return flagged("comfort", avg, "weighted descriptor average")
}

// ReliabilityScore is the expected fraction of the nominal benefit that
// survives failures: 1 - p_fail x severity, where severity is expressed in
// units of the nominal benefit.
func ReliabilityScore(o *ConvenienceOption, p CalcParams) DimensionScore {
	expected := 1 - o.FailureProbability*o.FailureSeverity
	return flagged("reliability", expected, "expected benefit net of failures")
}

// flagged clamps a raw score to [0, 1] and marks the result when clamping was
// needed.
func flagged(dimension string, raw float64, reason string) DimensionScore {
	s := DimensionScore{Dimension: dimension, Score: raw, Reason: reason}
	if raw < 0 || raw > 1 {
		s.Score = clamp01(raw)
		s.Clamped = true
		s.Reason = fmt.Sprintf("raw %.4f clamped to [0,1]", raw)
	}
	return s
}
