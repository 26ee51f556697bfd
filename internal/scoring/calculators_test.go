package scoring

import (
	"math"
	"testing"
)

func float64Ptr(v float64) *float64 { return &v }

func TestEffectiveRate(t *testing.T) {
	tests := []struct {
		name string
		econ TimeEconomics
		want float64
	}{
		{"salary above floor", TimeEconomics{AnnualIncome: 60000, AnnualWorkHours: 2000, MinimumRate: 15, ProductivityFactor: 1.0}, 30},
		{"floored at minimum", TimeEconomics{AnnualIncome: 10000, AnnualWorkHours: 2000, MinimumRate: 15, ProductivityFactor: 1.0}, 15},
		{"overtime premium", TimeEconomics{AnnualIncome: 60000, AnnualWorkHours: 2000, OvertimePremium: 0.5, MinimumRate: 15, ProductivityFactor: 1.0}, 45},
		{"productivity scaling", TimeEconomics{AnnualIncome: 60000, AnnualWorkHours: 2000, MinimumRate: 15, ProductivityFactor: 0.5}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.econ.EffectiveRate(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EffectiveRate = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTimeScore(t *testing.T) {
	p := DefaultCalcParams()

	t.Run("zero time saved scores zero", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 0}
		if d := TimeScore(o, p); d.Score != 0 {
			t.Errorf("score = %f, want 0", d.Score)
		}
	})

	t.Run("monotone in time saved", func(t *testing.T) {
		prev := -1.0
		for _, saved := range []float64{5, 15, 45, 120, 600} {
			o := &ConvenienceOption{Name: "x", TimeSavedMinutes: saved}
			d := TimeScore(o, p)
			if d.Score <= prev {
				t.Errorf("score not increasing at %f min: %f <= %f", saved, d.Score, prev)
			}
			prev = d.Score
		}
	})

	t.Run("saturates below one", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 10000}
		d := TimeScore(o, p)
		if d.Score >= 1 || d.Clamped {
			t.Errorf("score = %f clamped=%v, expected asymptotic below 1", d.Score, d.Clamped)
		}
	})

	t.Run("cost penalizes", func(t *testing.T) {
		free := TimeScore(&ConvenienceOption{Name: "x", TimeSavedMinutes: 30}, p)
		paid := TimeScore(&ConvenienceOption{Name: "x", TimeSavedMinutes: 30, MonetaryCost: 50}, p)
		if paid.Score >= free.Score {
			t.Errorf("cost should reduce score: %f >= %f", paid.Score, free.Score)
		}
	})

	t.Run("zero value falls back to cost reference", func(t *testing.T) {
		// No time saved means the time value is zero; the penalty uses the
		// configured reference instead of dividing by zero.
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 0, MonetaryCost: 10}
		d := TimeScore(o, p)
		if math.IsNaN(d.Score) || math.IsInf(d.Score, 0) {
			t.Errorf("score = %f, expected finite", d.Score)
		}
	})
}

func TestStressScore(t *testing.T) {
	p := DefaultCalcParams()

	t.Run("full relief", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", BaselineStressMultiplier: 0}
		if d := StressScore(o, p); d.Score != 1.0 {
			t.Errorf("score = %f, want 1.0", d.Score)
		}
	})

	t.Run("no change scores zero", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", BaselineStressMultiplier: 1.0}
		if d := StressScore(o, p); d.Score != 0 {
			t.Errorf("score = %f, want 0", d.Score)
		}
	})

	t.Run("stress-adding option scores zero", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", BaselineStressMultiplier: 1.5}
		if d := StressScore(o, p); d.Score != 0 {
			t.Errorf("score = %f, want 0", d.Score)
		}
	})

	t.Run("situational multipliers amplify", func(t *testing.T) {
		base := StressScore(&ConvenienceOption{Name: "x", BaselineStressMultiplier: 0.7}, p)
		loaded := StressScore(&ConvenienceOption{
			Name:                     "x",
			BaselineStressMultiplier: 0.7,
			TaskComplexity:           float64Ptr(1.5),
			Fatigue:                  float64Ptr(1.2),
		}, p)
		if loaded.Score <= base.Score {
			t.Errorf("situational load should amplify relief value: %f <= %f", loaded.Score, base.Score)
		}
	})

	t.Run("low tolerance amplifies", func(t *testing.T) {
		medium := StressScore(&ConvenienceOption{Name: "x", BaselineStressMultiplier: 0.8}, p)
		low := StressScore(&ConvenienceOption{Name: "x", BaselineStressMultiplier: 0.8, StressTolerance: ToleranceLow}, p)
		if low.Score != medium.Score*2 {
			t.Errorf("low tolerance score = %f, want %f", low.Score, medium.Score*2)
		}
	})

	t.Run("clamps and flags above ceiling", func(t *testing.T) {
		o := &ConvenienceOption{
			Name:                     "x",
			BaselineStressMultiplier: 0,
			TaskComplexity:           float64Ptr(2.0),
			StressTolerance:          ToleranceLow,
		}
		d := StressScore(o, p)
		if d.Score != 1.0 || !d.Clamped {
			t.Errorf("score = %f clamped=%v, want 1.0 flagged", d.Score, d.Clamped)
		}
	})
}

func TestOpportunityScore(t *testing.T) {
	p := DefaultCalcParams()

	t.Run("no allocation scores zero", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 60}
		if d := OpportunityScore(o, p); d.Score != 0 {
			t.Errorf("score = %f, want 0", d.Score)
		}
	})

	t.Run("allocated value against ceiling", func(t *testing.T) {
		// 30 min all to work at 0.50/min = 15 value units against a ceiling
		// of 25.
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 30, TimeAllocation: Allocation{Work: 1.0}}
		d := OpportunityScore(o, p)
		if math.Abs(d.Score-0.6) > 1e-9 {
			t.Errorf("score = %f, want 0.6", d.Score)
		}
	})

	t.Run("mixed allocation", func(t *testing.T) {
		o := &ConvenienceOption{
			Name:             "x",
			TimeSavedMinutes: 20,
			TimeAllocation:   Allocation{Work: 0.5, Leisure: 0.25, Health: 0.25},
		}
		// 20*(0.5*0.50 + 0.25*0.30 + 0.25*0.35) / 25
		want := 20 * (0.25 + 0.075 + 0.0875) / 25
		d := OpportunityScore(o, p)
		if math.Abs(d.Score-want) > 1e-9 {
			t.Errorf("score = %f, want %f", d.Score, want)
		}
	})

	t.Run("clamps above ceiling", func(t *testing.T) {
		o := &ConvenienceOption{Name: "x", TimeSavedMinutes: 600, TimeAllocation: Allocation{Work: 1.0}}
		d := OpportunityScore(o, p)
		if d.Score != 1.0 || !d.Clamped {
			t.Errorf("score = %f clamped=%v, want 1.0 flagged", d.Score, d.Clamped)
		}
	})
}

func TestComfortScore(t *testing.T) {
	p := DefaultCalcParams()

	o := &ConvenienceOption{Name: "x", Ergonomics: 1.0, Ambiance: 0.5, Control: 0.0}
	// 0.4*1.0 + 0.3*0.5 + 0.3*0.0 = 0.55
	d := ComfortScore(o, p)
	if math.Abs(d.Score-0.55) > 1e-9 {
		t.Errorf("score = %f, want 0.55", d.Score)
	}

	perfect := ComfortScore(&ConvenienceOption{Name: "x", Ergonomics: 1, Ambiance: 1, Control: 1}, p)
	if perfect.Score != 1.0 {
		t.Errorf("all-ones comfort = %f, want 1.0", perfect.Score)
	}
}

func TestReliabilityScore(t *testing.T) {
	p := DefaultCalcParams()

	tests := []struct {
		name     string
		prob     float64
		severity float64
		want     float64
		clamped  bool
	}{
		{"guaranteed", 0, 1.0, 1.0, false},
		{"typical", 0.1, 0.5, 0.95, false},
		{"certain total loss", 1.0, 1.0, 0.0, false},
		{"severity above nominal clamps", 0.8, 2.0, 0.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &ConvenienceOption{Name: "x", FailureProbability: tt.prob, FailureSeverity: tt.severity}
			d := ReliabilityScore(o, p)
			if math.Abs(d.Score-tt.want) > 1e-9 {
				t.Errorf("score = %f, want %f", d.Score, tt.want)
			}
			if d.Clamped != tt.clamped {
				t.Errorf("clamped = %v, want %v", d.Clamped, tt.clamped)
			}
		})
	}
}

func TestCalcParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CalcParams)
		wantErr bool
	}{
		{"defaults", func(p *CalcParams) {}, false},
		{"zero saturation", func(p *CalcParams) { p.TimeSaturationMinutes = 0 }, true},
		{"negative cost reference", func(p *CalcParams) { p.CostReference = -1 }, true},
		{"zero stress ceiling", func(p *CalcParams) { p.StressCeiling = 0 }, true},
		{"zero opportunity ceiling", func(p *CalcParams) { p.OpportunityCeiling = 0 }, true},
		{"zero comfort weights", func(p *CalcParams) { p.Comfort = ComfortWeights{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultCalcParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
