// Package learning maintains a weight vector as a logistic pairwise
// preference model. The gradient step is a pure function; the Learner wraps
// it with the single-writer discipline the shared vector needs.
package learning

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/scoring"
)

// ChoiceObservation records one real-world pairwise choice: the option the
// decision-maker picked, the one they passed over, and the context at decision
// time. It is consumed once by the learner and then discardable.
type ChoiceObservation struct {
	ID         uuid.UUID                  `json:"id,omitempty"`
	SessionID  uuid.UUID                  `json:"session_id,omitempty"`
	Chosen     *scoring.ConvenienceOption `json:"chosen"`
	Rejected   *scoring.ConvenienceOption `json:"rejected"`
	Context    scoring.Context            `json:"context"`
	ObservedAt time.Time                  `json:"observed_at,omitempty"`
}

// Validate checks both options and requires them to be distinct.
func (o *ChoiceObservation) Validate() error {
	if o.Chosen == nil || o.Rejected == nil {
		return &scoring.ValidationError{Field: "observation", Reason: "chosen and rejected options required"}
	}
	if err := o.Chosen.Validate(); err != nil {
		return err
	}
	return o.Rejected.Validate()
}

// UpdateResult reports what a learning step did.
type UpdateResult struct {
	Weights    scoring.WeightVector `json:"weights"`
	Applied    int                  `json:"applied"`
	Skipped    int                  `json:"skipped"`
	Confidence float64              `json:"confidence"`
	Seen       int                  `json:"seen"`
}

// Step applies one projected logistic gradient step and returns the new
// vector. diff is the per-dimension score difference chosen minus rejected
// (context multipliers already applied). A zero diff carries no information
// and is skipped, reported by the second return value.
func Step(w scoring.WeightVector, diff [5]float64, rate float64) (scoring.WeightVector, bool) {
	if isZero(diff) {
		return w, false
	}
	wl := w.AsList()
	p := sigmoid(dot(wl, diff))
	for i := range wl {
		wl[i] += rate * (1 - p) * diff[i]
	}
	return projectSimplex(wl, w), true
}

// BatchStep averages the gradients of a mini-batch and applies them as a
// single projected step, so the result is independent of arrival order within
// the batch. Returns the new vector and how many observations contributed.
func BatchStep(w scoring.WeightVector, diffs [][5]float64, rate float64) (scoring.WeightVector, int) {
	wl := w.AsList()
	var grad [5]float64
	applied := 0
	for _, d := range diffs {
		if isZero(d) {
			continue
		}
		p := sigmoid(dot(wl, d))
		for i := range d {
			grad[i] += (1 - p) * d[i]
		}
		applied++
	}
	if applied == 0 {
		return w, 0
	}
	for i := range wl {
		wl[i] += rate * grad[i] / float64(applied)
	}
	return projectSimplex(wl, w), applied
}

// projectSimplex clips negative components to zero and renormalizes to sum 1.
// If everything clips to zero the previous vector is kept, since a degenerate
// step carries no usable direction.
func projectSimplex(wl [5]float64, prev scoring.WeightVector) scoring.WeightVector {
	var sum float64
	for i := range wl {
		if wl[i] < 0 {
			wl[i] = 0
		}
		sum += wl[i]
	}
	if sum <= 0 {
		return prev
	}
	for i := range wl {
		wl[i] /= sum
	}
	return scoring.WeightsFromList(wl)
}

// Learner owns a session's weight vector. All updates are serialized; two
// concurrent applies would both read-then-write the same vector.
type Learner struct {
	mu      sync.Mutex
	weights scoring.WeightVector
	seen    int

	engine    *scoring.Engine
	rate      float64
	confK     float64
	confTheta int
	logger    *slog.Logger
}

// Params tune the learner.
type Params struct {
	Rate            float64 `yaml:"rate"`
	ConfidenceK     float64 `yaml:"confidence_k"`
	ConfidenceTheta int     `yaml:"confidence_theta"`
}

// DefaultParams returns the standard learning tuning.
func DefaultParams() Params {
	return Params{Rate: 0.05, ConfidenceK: 0.2, ConfidenceTheta: 20}
}

// NewLearner creates a Learner starting from the given weights.
func NewLearner(engine *scoring.Engine, weights scoring.WeightVector, params Params, logger *slog.Logger) (*Learner, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if params.Rate <= 0 {
		return nil, &scoring.ValidationError{Field: "learning.rate", Value: params.Rate, Reason: "must be positive"}
	}
	return &Learner{
		weights:   weights,
		engine:    engine,
		rate:      params.Rate,
		confK:     params.ConfidenceK,
		confTheta: params.ConfidenceTheta,
		logger:    logger,
	}, nil
}

// Weights returns a copy of the current weight vector.
func (l *Learner) Weights() scoring.WeightVector {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.weights
}

// Seen returns how many observations have been applied or skipped.
func (l *Learner) Seen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen
}

// Confidence reports how much the learned weights should be trusted, a
// sigmoid over the number of observations seen.
func (l *Learner) Confidence() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confidenceLocked()
}

func (l *Learner) confidenceLocked() float64 {
	return sigmoid(l.confK * float64(l.seen-l.confTheta))
}

// RecordChoice applies one observation and returns the updated weights.
func (l *Learner) RecordChoice(obs *ChoiceObservation) (UpdateResult, error) {
	return l.RecordBatch([]*ChoiceObservation{obs})
}

// RecordBatch applies a mini-batch of observations as a single averaged
// gradient step. Validation happens before the lock is taken so a malformed
// observation never partially mutates the vector.
func (l *Learner) RecordBatch(batch []*ChoiceObservation) (UpdateResult, error) {
	diffs := make([][5]float64, 0, len(batch))
	for _, obs := range batch {
		if err := obs.Validate(); err != nil {
			return UpdateResult{}, err
		}
		d, err := l.scoreDiff(obs)
		if err != nil {
			return UpdateResult{}, err
		}
		diffs = append(diffs, d)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next, applied := BatchStep(l.weights, diffs, l.rate)
	l.weights = next
	l.seen += len(batch)

	res := UpdateResult{
		Weights:    next,
		Applied:    applied,
		Skipped:    len(batch) - applied,
		Confidence: l.confidenceLocked(),
		Seen:       l.seen,
	}
	if l.logger != nil {
		l.logger.Info("weights updated",
			"applied", res.Applied,
			"skipped", res.Skipped,
			"seen", res.Seen,
			"confidence", res.Confidence,
		)
	}
	return res, nil
}

// RestoreSeen sets the observation count when a learner is rebuilt from
// persisted session state.
func (l *Learner) RestoreSeen(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = n
}

// Reset replaces the weight vector, typically with defaults.
func (l *Learner) Reset(w scoring.WeightVector) error {
	if err := w.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.weights = w
	l.seen = 0
	return nil
}

// scoreDiff computes the per-dimension feature for one observation: the
// score difference chosen minus rejected, scaled by the shared context
// multipliers. Both options see the same multipliers since the context is
// shared within an observation.
func (l *Learner) scoreDiff(obs *ChoiceObservation) ([5]float64, error) {
	mult, _, err := l.engine.Multipliers(obs.Context)
	if err != nil {
		return [5]float64{}, err
	}
	cs, _ := l.engine.Scores(obs.Chosen)
	rs, _ := l.engine.Scores(obs.Rejected)

	cl, rl, ml := cs.AsList(), rs.AsList(), mult.AsList()
	var d [5]float64
	for i := range d {
		d[i] = ml[i] * (cl[i] - rl[i])
	}
	return d, nil
}

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func dot(a, b [5]float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func isZero(d [5]float64) bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}
