package sim

import (
	"math"
	"sort"

	"github.com/choicemetrics/convd/internal/scoring"
)

// PerturbationSpec configures the what-if analysis. Delta is the fractional
// perturbation applied to each input in turn (0.1 means ±10%). An empty
// Inputs list perturbs every perturbable attribute.
type PerturbationSpec struct {
	Delta  float64 `json:"delta"`
	Inputs []Input `json:"inputs,omitempty"`
}

// Validate rejects unusable perturbation parameters before any recompute.
func (p PerturbationSpec) Validate() error {
	if p.Delta <= 0 || p.Delta >= 1 {
		return &ConfigurationError{Param: "delta", Reason: "must be in (0, 1)"}
	}
	for _, in := range p.Inputs {
		if _, err := value(&scoring.ConvenienceOption{}, in); err != nil {
			return err
		}
	}
	return nil
}

// SensitivityResult reports one input's elasticity: the ratio of percentage
// MCV change to percentage input change. Defined is false when the baseline
// input (or the baseline MCV) is zero, where elasticity has no meaning.
// Clamped marks inputs whose perturbation was cut short by a domain edge;
// the elasticity still divides by the perturbation actually applied.
type SensitivityResult struct {
	Input      Input   `json:"input"`
	Baseline   float64 `json:"baseline"`
	Elasticity float64 `json:"elasticity"`
	Defined    bool    `json:"defined"`
	Clamped    bool    `json:"clamped,omitempty"`
}

// Sensitivity perturbs each input of one option by ±delta, holding all else
// fixed, and reports elasticities ranked by |elasticity| descending with
// undefined entries last. Near a domain edge the perturbation clamps to the
// attribute's bounds; the elasticity divides by the perturbation that was
// actually applied, not the nominal delta, so it is never understated.
func (s *Simulator) Sensitivity(option *scoring.ConvenienceOption, sctx scoring.Context, weights scoring.WeightVector, spec PerturbationSpec) ([]SensitivityResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := option.Validate(); err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	inputs := spec.Inputs
	if len(inputs) == 0 {
		inputs = Inputs
	}

	baseline, err := s.mcv(option, sctx, weights)
	if err != nil {
		return nil, err
	}

	results := make([]SensitivityResult, 0, len(inputs))
	for _, in := range inputs {
		base, err := value(option, in)
		if err != nil {
			return nil, err
		}
		res := SensitivityResult{Input: in, Baseline: base}
		if base == 0 || baseline == 0 {
			// Percentage change from zero is undefined; report it as
			// such instead of a division artifact.
			results = append(results, res)
			continue
		}

		up := *option
		down := *option
		if err := apply(&up, in, base*(1+spec.Delta)); err != nil {
			return nil, err
		}
		if err := apply(&down, in, base*(1-spec.Delta)); err != nil {
			return nil, err
		}
		// apply clamps to the attribute domain, so the effective
		// perturbation can be narrower than the nominal ±delta.
		appliedUp, _ := value(&up, in)
		appliedDown, _ := value(&down, in)
		res.Clamped = appliedUp != base*(1+spec.Delta) || appliedDown != base*(1-spec.Delta)
		pctIn := (appliedUp - appliedDown) / 2 / base
		if pctIn == 0 {
			results = append(results, res)
			continue
		}

		vUp, err := s.mcv(&up, sctx, weights)
		if err != nil {
			return nil, err
		}
		vDown, err := s.mcv(&down, sctx, weights)
		if err != nil {
			return nil, err
		}

		pctOut := (vUp - vDown) / 2 / baseline
		res.Elasticity = pctOut / pctIn
		res.Defined = true
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Defined != results[j].Defined {
			return results[i].Defined
		}
		return math.Abs(results[i].Elasticity) > math.Abs(results[j].Elasticity)
	})
	return results, nil
}

// mcv scores a single option and returns its MCV.
func (s *Simulator) mcv(option *scoring.ConvenienceOption, sctx scoring.Context, weights scoring.WeightVector) (float64, error) {
	results, err := s.engine.Evaluate([]*scoring.ConvenienceOption{option}, sctx, weights)
	if err != nil {
		return 0, err
	}
	return results[0].MCV, nil
}
