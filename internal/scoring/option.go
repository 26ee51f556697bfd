package scoring

import (
	"github.com/google/uuid"
)

// StressTolerance grades how well the decision-maker absorbs stress.
// A low tolerance amplifies the value of stress relief.
type StressTolerance string

const (
	ToleranceLow        StressTolerance = "low"
	ToleranceMediumLow  StressTolerance = "medium_low"
	ToleranceMedium     StressTolerance = "medium"
	ToleranceMediumHigh StressTolerance = "medium_high"
	ToleranceHigh       StressTolerance = "high"
)

// toleranceFactors maps tolerance to a bounded amplification of stress relief.
var toleranceFactors = map[StressTolerance]float64{
	ToleranceLow:        2.0,
	ToleranceMediumLow:  1.5,
	ToleranceMedium:     1.0,
	ToleranceMediumHigh: 0.7,
	ToleranceHigh:       0.4,
}

// ActivityCategory identifies what freed-up time would be spent on.
type ActivityCategory string

const (
	ActivityWork    ActivityCategory = "work"
	ActivityLeisure ActivityCategory = "leisure"
	ActivityFamily  ActivityCategory = "family"
	ActivityHealth  ActivityCategory = "health"
)

// ActivityCategories lists the categories in canonical order.
var ActivityCategories = []ActivityCategory{ActivityWork, ActivityLeisure, ActivityFamily, ActivityHealth}

// Allocation distributes freed time across activity categories. Fractions are
// non-negative and must not sum above 1; the remainder is treated as unvalued
// slack time.
type Allocation struct {
	Work    float64 `json:"work"`
	Leisure float64 `json:"leisure"`
	Family  float64 `json:"family"`
	Health  float64 `json:"health"`
}

// Fraction returns the allocation for a category.
func (a Allocation) Fraction(c ActivityCategory) float64 {
	switch c {
	case ActivityWork:
		return a.Work
	case ActivityLeisure:
		return a.Leisure
	case ActivityFamily:
		return a.Family
	case ActivityHealth:
		return a.Health
	}
	return 0
}

// Sum returns the total allocated fraction.
func (a Allocation) Sum() float64 { return a.Work + a.Leisure + a.Family + a.Health }

// ConvenienceOption is one candidate choice under evaluation. It is immutable
// for the duration of a single evaluation and owned by the caller.
type ConvenienceOption struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`

	// Time and money
	TimeSavedMinutes float64 `json:"time_saved_minutes"`
	MonetaryCost     float64 `json:"monetary_cost"`

	// Stress descriptors. BaselineStressMultiplier scales the residual
	// stress the option leaves behind: 0 means total relief, 1 means no
	// change, values up to 2 mean the option adds stress. The situational
	// multipliers default to 1.0 when omitted and must each stay within
	// [0.5, 2.0].
	BaselineStressMultiplier float64         `json:"baseline_stress_multiplier"`
	TaskComplexity           *float64        `json:"task_complexity,omitempty"`
	CognitiveLoad            *float64        `json:"cognitive_load,omitempty"`
	Fatigue                  *float64        `json:"fatigue,omitempty"`
	StressTolerance          StressTolerance `json:"stress_tolerance,omitempty"`

	// Opportunity cost: how freed time would be allocated.
	TimeAllocation Allocation `json:"time_allocation"`

	// Comfort descriptors, each in [0, 1].
	Ergonomics float64 `json:"ergonomics"`
	Ambiance   float64 `json:"ambiance"`
	Control    float64 `json:"control"`

	// Reliability
	FailureProbability float64 `json:"failure_probability"`
	FailureSeverity    float64 `json:"failure_severity"`
}

// situationalBound limits each situational stress multiplier.
const (
	situationalMin = 0.5
	situationalMax = 2.0
)

// Validate checks every attribute against its declared domain. It returns a
// ValidationError on the first violation found.
func (o *ConvenienceOption) Validate() error {
	if o.Name == "" {
		return validationErr("option.name", o.Name, "must not be empty")
	}
	if o.TimeSavedMinutes < 0 {
		return validationErr("option.time_saved_minutes", o.TimeSavedMinutes, "must be non-negative")
	}
	if o.MonetaryCost < 0 {
		return validationErr("option.monetary_cost", o.MonetaryCost, "must be non-negative")
	}
	if o.BaselineStressMultiplier < 0 || o.BaselineStressMultiplier > 2 {
		return validationErr("option.baseline_stress_multiplier", o.BaselineStressMultiplier, "must be in [0, 2]")
	}
	for _, m := range []struct {
		name  string
		value *float64
	}{
		{"option.task_complexity", o.TaskComplexity},
		{"option.cognitive_load", o.CognitiveLoad},
		{"option.fatigue", o.Fatigue},
	} {
		if m.value != nil && (*m.value < situationalMin || *m.value > situationalMax) {
			return validationErr(m.name, *m.value, "must be in [0.5, 2.0]")
		}
	}
	if o.StressTolerance != "" {
		if _, ok := toleranceFactors[o.StressTolerance]; !ok {
			return validationErr("option.stress_tolerance", o.StressTolerance, "unknown tolerance level")
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"option.time_allocation.work", o.TimeAllocation.Work},
		{"option.time_allocation.leisure", o.TimeAllocation.Leisure},
		{"option.time_allocation.family", o.TimeAllocation.Family},
		{"option.time_allocation.health", o.TimeAllocation.Health},
	} {
		if f.value < 0 || f.value > 1 {
			return validationErr(f.name, f.value, "must be in [0, 1]")
		}
	}
	if o.TimeAllocation.Sum() > 1+WeightEpsilon {
		return validationErr("option.time_allocation", o.TimeAllocation.Sum(), "fractions must not sum above 1")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"option.ergonomics", o.Ergonomics},
		{"option.ambiance", o.Ambiance},
		{"option.control", o.Control},
	} {
		if f.value < 0 || f.value > 1 {
			return validationErr(f.name, f.value, "must be in [0, 1]")
		}
	}
	if o.FailureProbability < 0 || o.FailureProbability > 1 {
		return validationErr("option.failure_probability", o.FailureProbability, "must be in [0, 1]")
	}
	if o.FailureSeverity < 0 {
		return validationErr("option.failure_severity", o.FailureSeverity, "must be non-negative")
	}
	return nil
}

// situational returns the product of the situational stress multipliers,
// defaulting each omitted multiplier to 1.0.
func (o *ConvenienceOption) situational() float64 {
	p := 1.0
	for _, m := range []*float64{o.TaskComplexity, o.CognitiveLoad, o.Fatigue} {
		if m != nil {
			p *= *m
		}
	}
	return p
}

// toleranceFactor returns the stress tolerance amplification, defaulting to
// medium when unset.
func (o *ConvenienceOption) toleranceFactor() float64 {
	if o.StressTolerance == "" {
		return toleranceFactors[ToleranceMedium]
	}
	return toleranceFactors[o.StressTolerance]
}
