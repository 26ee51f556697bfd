package scoring

import (
	"fmt"
	"math"
)

// WeightEpsilon is the tolerance on the sum-to-one invariant for weight vectors.
const WeightEpsilon = 1e-6

// DimensionNames lists the five sub-benefit dimensions in canonical order.
// Every vector type in this package uses this order for its list form.
var DimensionNames = [5]string{"time", "stress", "opportunity", "comfort", "reliability"}

// WeightVector defines the relative importance of each sub-benefit dimension.
// All weights must be non-negative and sum to 1.0 (±WeightEpsilon).
type WeightVector struct {
	Time        float64 `json:"time" yaml:"time"`
	Stress      float64 `json:"stress" yaml:"stress"`
	Opportunity float64 `json:"opportunity" yaml:"opportunity"`
	Comfort     float64 `json:"comfort" yaml:"comfort"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
}

// DefaultWeights returns the starting weight distribution used before any
// choices have been observed.
func DefaultWeights() WeightVector {
	return WeightVector{
		Time:        0.35,
		Stress:      0.25,
		Opportunity: 0.15,
		Comfort:     0.10,
		Reliability: 0.15,
	}
}

// UniformWeights returns the maximum-entropy weight vector.
func UniformWeights() WeightVector {
	return WeightVector{Time: 0.2, Stress: 0.2, Opportunity: 0.2, Comfort: 0.2, Reliability: 0.2}
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	return w.Time + w.Stress + w.Opportunity + w.Comfort + w.Reliability
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w WeightVector) Validate() error {
	for i, v := range w.AsList() {
		if v < 0 {
			return validationErr("weights."+DimensionNames[i], v, "must be non-negative")
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightEpsilon {
		return validationErr("weights", w.Sum(), fmt.Sprintf("must sum to 1.0 within %g", WeightEpsilon))
	}
	return nil
}

// AsList returns the weights in canonical dimension order.
func (w WeightVector) AsList() [5]float64 {
	return [5]float64{w.Time, w.Stress, w.Opportunity, w.Comfort, w.Reliability}
}

// WeightsFromList builds a WeightVector from canonical dimension order.
func WeightsFromList(l [5]float64) WeightVector {
	return WeightVector{Time: l[0], Stress: l[1], Opportunity: l[2], Comfort: l[3], Reliability: l[4]}
}

// MultiplierVector holds the five context multipliers produced by the
// ContextEngine for one evaluation. Entries are always within the engine's
// configured bounds.
type MultiplierVector struct {
	Time        float64 `json:"time"`
	Stress      float64 `json:"stress"`
	Opportunity float64 `json:"opportunity"`
	Comfort     float64 `json:"comfort"`
	Reliability float64 `json:"reliability"`
}

// AsList returns the multipliers in canonical dimension order.
func (m MultiplierVector) AsList() [5]float64 {
	return [5]float64{m.Time, m.Stress, m.Opportunity, m.Comfort, m.Reliability}
}

// ScoreVector holds the five normalized sub-benefit scores for one option.
// Entries are always in [0, 1].
type ScoreVector struct {
	Time        float64 `json:"time"`
	Stress      float64 `json:"stress"`
	Opportunity float64 `json:"opportunity"`
	Comfort     float64 `json:"comfort"`
	Reliability float64 `json:"reliability"`
}

// AsList returns the scores in canonical dimension order.
func (s ScoreVector) AsList() [5]float64 {
	return [5]float64{s.Time, s.Stress, s.Opportunity, s.Comfort, s.Reliability}
}

// DimensionScore captures one dimension's contribution to an option's MCV.
type DimensionScore struct {
	Dimension    string  `json:"dimension"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Multiplier   float64 `json:"multiplier"`
	Weighted     float64 `json:"weighted"`
	Contribution float64 `json:"contribution"`
	Clamped      bool    `json:"clamped,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
