package sim

import (
	"fmt"

	"github.com/choicemetrics/convd/internal/scoring"
)

// Input names one perturbable option attribute.
type Input string

const (
	InputTimeSaved          Input = "time_saved_minutes"
	InputMonetaryCost       Input = "monetary_cost"
	InputBaselineStress     Input = "baseline_stress_multiplier"
	InputErgonomics         Input = "ergonomics"
	InputAmbiance           Input = "ambiance"
	InputControl            Input = "control"
	InputFailureProbability Input = "failure_probability"
	InputFailureSeverity    Input = "failure_severity"
)

// Inputs lists every perturbable attribute in canonical order.
var Inputs = []Input{
	InputTimeSaved,
	InputMonetaryCost,
	InputBaselineStress,
	InputErgonomics,
	InputAmbiance,
	InputControl,
	InputFailureProbability,
	InputFailureSeverity,
}

// value reads the attribute from an option.
func value(o *scoring.ConvenienceOption, in Input) (float64, error) {
	switch in {
	case InputTimeSaved:
		return o.TimeSavedMinutes, nil
	case InputMonetaryCost:
		return o.MonetaryCost, nil
	case InputBaselineStress:
		return o.BaselineStressMultiplier, nil
	case InputErgonomics:
		return o.Ergonomics, nil
	case InputAmbiance:
		return o.Ambiance, nil
	case InputControl:
		return o.Control, nil
	case InputFailureProbability:
		return o.FailureProbability, nil
	case InputFailureSeverity:
		return o.FailureSeverity, nil
	}
	return 0, &ConfigurationError{Param: "input", Reason: fmt.Sprintf("unknown input %q", in)}
}

// apply writes the attribute onto an option copy, clamped to the attribute's
// domain so a tail sample never turns into a validation failure mid-run.
func apply(o *scoring.ConvenienceOption, in Input, v float64) error {
	switch in {
	case InputTimeSaved:
		o.TimeSavedMinutes = clampMin(v, 0)
	case InputMonetaryCost:
		o.MonetaryCost = clampMin(v, 0)
	case InputBaselineStress:
		o.BaselineStressMultiplier = clampRange(v, 0, 2)
	case InputErgonomics:
		o.Ergonomics = clampRange(v, 0, 1)
	case InputAmbiance:
		o.Ambiance = clampRange(v, 0, 1)
	case InputControl:
		o.Control = clampRange(v, 0, 1)
	case InputFailureProbability:
		o.FailureProbability = clampRange(v, 0, 1)
	case InputFailureSeverity:
		o.FailureSeverity = clampMin(v, 0)
	default:
		return &ConfigurationError{Param: "input", Reason: fmt.Sprintf("unknown input %q", in)}
	}
	return nil
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// InputDistribution binds an uncertain input to its sampling distribution.
// Option selects which option the distribution applies to by name; empty
// means every option, each sampling independently. UncertaintySpec is a
// slice, not a map: draw order is part of the deterministic seeding contract.
type InputDistribution struct {
	Option       string       `json:"option,omitempty"`
	Input        Input        `json:"input"`
	Distribution Distribution `json:"distribution"`
}

// UncertaintySpec enumerates the uncertain inputs for a Monte Carlo run-set.
type UncertaintySpec []InputDistribution

// Validate checks every distribution and rejects duplicate bindings.
func (s UncertaintySpec) Validate() error {
	if len(s) == 0 {
		return &ConfigurationError{Param: "uncertainty", Reason: "at least one uncertain input required"}
	}
	seen := map[string]bool{}
	for _, id := range s {
		if _, err := value(&scoring.ConvenienceOption{}, id.Input); err != nil {
			return err
		}
		key := id.Option + "/" + string(id.Input)
		if seen[key] {
			return &ConfigurationError{Param: "uncertainty", Reason: fmt.Sprintf("duplicate binding %q", key)}
		}
		seen[key] = true
		if err := id.Distribution.Validate(); err != nil {
			return err
		}
	}
	return nil
}
