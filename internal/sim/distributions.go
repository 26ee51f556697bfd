// Package sim propagates input uncertainty into MCV distributions and
// per-input elasticities. It re-runs the scoring engine; it never duplicates
// the scoring math.
package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// ConfigurationError reports distribution or perturbation parameters that
// cannot produce a meaningful simulation. It always fails before any run
// starts.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid simulation config %s: %s", e.Param, e.Reason)
}

// DistKind selects a sampling distribution.
type DistKind string

const (
	DistNormal     DistKind = "normal"
	DistTriangular DistKind = "triangular"
	DistUniform    DistKind = "uniform"
)

// Distribution parameterizes one uncertain input. Normal uses Mean/StdDev;
// triangular uses Min/Mode/Max; uniform uses Min/Max.
type Distribution struct {
	Kind   DistKind `json:"kind"`
	Mean   float64  `json:"mean,omitempty"`
	StdDev float64  `json:"std_dev,omitempty"`
	Min    float64  `json:"min,omitempty"`
	Mode   float64  `json:"mode,omitempty"`
	Max    float64  `json:"max,omitempty"`
}

// Validate rejects parameter sets that cannot be sampled.
func (d Distribution) Validate() error {
	switch d.Kind {
	case DistNormal:
		if d.StdDev < 0 {
			return &ConfigurationError{Param: "std_dev", Reason: "must be non-negative"}
		}
	case DistTriangular:
		if !(d.Min <= d.Mode && d.Mode <= d.Max) {
			return &ConfigurationError{Param: "triangular", Reason: fmt.Sprintf("need min <= mode <= max, got %g/%g/%g", d.Min, d.Mode, d.Max)}
		}
		if d.Min == d.Max {
			return &ConfigurationError{Param: "triangular", Reason: "degenerate range"}
		}
	case DistUniform:
		if d.Min > d.Max {
			return &ConfigurationError{Param: "uniform", Reason: fmt.Sprintf("min %g above max %g", d.Min, d.Max)}
		}
	default:
		return &ConfigurationError{Param: "kind", Reason: fmt.Sprintf("unknown distribution %q", d.Kind)}
	}
	return nil
}

// Sample draws one value. The distribution must already be validated.
func (d Distribution) Sample(r *rand.Rand) float64 {
	switch d.Kind {
	case DistNormal:
		return d.Mean + d.StdDev*r.NormFloat64()
	case DistTriangular:
		return sampleTriangular(r.Float64(), d.Min, d.Mode, d.Max)
	case DistUniform:
		return d.Min + (d.Max-d.Min)*r.Float64()
	}
	return 0
}

// sampleTriangular inverts the triangular CDF for a uniform u in [0, 1).
func sampleTriangular(u, min, mode, max float64) float64 {
	fc := (mode - min) / (max - min)
	if u < fc {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}
