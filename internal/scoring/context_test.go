package scoring

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContextEngine(t *testing.T) *ContextEngine {
	t.Helper()
	e, err := NewContextEngine(DefaultBounds(), DefaultAnchors(), discardLogger())
	if err != nil {
		t.Fatalf("NewContextEngine: %v", err)
	}
	return e
}

func TestDefaultContextIsIdentity(t *testing.T) {
	e := testContextEngine(t)
	m, warnings, err := e.Multipliers(Context{
		Urgency:      UrgencyLow,
		Day:          DayWeekday,
		Weather:      WeatherClear,
		Availability: 1.0,
	})
	if err != nil {
		t.Fatalf("Multipliers: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	for i, v := range m.AsList() {
		if v != 1.0 {
			t.Errorf("%s multiplier = %f, expected exactly 1.0", DimensionNames[i], v)
		}
	}
}

func TestUnknownCategoricalValues(t *testing.T) {
	e := testContextEngine(t)
	base := Context{Urgency: UrgencyLow, Day: DayWeekday, Weather: WeatherClear, Availability: 1.0}

	tests := []struct {
		name   string
		mutate func(*Context)
	}{
		{"urgency", func(c *Context) { c.Urgency = "panic" }},
		{"day", func(c *Context) { c.Day = "someday" }},
		{"weather", func(c *Context) { c.Weather = "hail" }},
		{"decision", func(c *Context) { c.Decision = "gambling" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := base
			tt.mutate(&ctx)
			_, _, err := e.Multipliers(ctx)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestAvailabilityInterpolation(t *testing.T) {
	e := testContextEngine(t)
	base := Context{Urgency: UrgencyLow, Day: DayWeekday, Weather: WeatherClear}

	tests := []struct {
		availability float64
		want         float64
	}{
		{0.0, 0.5},
		{0.5, 0.75},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		ctx := base
		ctx.Availability = tt.availability
		m, _, err := e.Multipliers(ctx)
		if err != nil {
			t.Fatalf("Multipliers: %v", err)
		}
		if math.Abs(m.Time-tt.want) > 1e-9 {
			t.Errorf("availability %f: time multiplier = %f, want %f", tt.availability, m.Time, tt.want)
		}
	}
}

func TestAvailabilityOutOfRangeClampedWithWarning(t *testing.T) {
	e := testContextEngine(t)
	base := Context{Urgency: UrgencyLow, Day: DayWeekday, Weather: WeatherClear}

	for _, avail := range []float64{-0.2, 1.3} {
		ctx := base
		ctx.Availability = avail
		m, warnings, err := e.Multipliers(ctx)
		if err != nil {
			t.Fatalf("availability %f should clamp, not fail: %v", avail, err)
		}
		if len(warnings) != 1 {
			t.Errorf("availability %f: expected 1 warning, got %v", avail, warnings)
		}
		want := 0.5
		if avail > 1 {
			want = 1.0
		}
		if math.Abs(m.Time-want) > 1e-9 {
			t.Errorf("availability %f: time multiplier = %f, want %f", avail, m.Time, want)
		}
	}
}

func TestMultipliersStayWithinBounds(t *testing.T) {
	e := testContextEngine(t)
	contexts := []Context{
		{Urgency: UrgencyCritical, Day: DayWeekday, Weather: WeatherStorm, Availability: 1.0},
		{Urgency: UrgencyCritical, Day: DayHoliday, Weather: WeatherSnow, Availability: 0.0},
		{Urgency: UrgencyLow, Day: DayHoliday, Weather: WeatherClear, Availability: 0.0},
	}
	for _, ctx := range contexts {
		for _, decision := range []DecisionType{DecisionTransportation, DecisionFood, DecisionShopping, DecisionServices, DecisionEntertainment} {
			ctx.Decision = decision
			m, _, err := e.Multipliers(ctx)
			if err != nil {
				t.Fatalf("Multipliers: %v", err)
			}
			for i, v := range m.AsList() {
				if v < 0.5 || v > 2.0 {
					t.Errorf("%s/%s: %s multiplier %f outside [0.5, 2.0]", ctx.Urgency, decision, DimensionNames[i], v)
				}
			}
		}
	}
}

func TestDecisionTypeDampensContext(t *testing.T) {
	e := testContextEngine(t)
	stormy := Context{Urgency: UrgencyCritical, Day: DayWeekday, Weather: WeatherStorm, Availability: 1.0}

	transport := stormy
	transport.Decision = DecisionTransportation
	shopping := stormy
	shopping.Decision = DecisionShopping

	mt, _, err := e.Multipliers(transport)
	if err != nil {
		t.Fatalf("Multipliers: %v", err)
	}
	ms, _, err := e.Multipliers(shopping)
	if err != nil {
		t.Fatalf("Multipliers: %v", err)
	}
	// Shopping is less sensitive to urgency and weather, so the same storm
	// moves its time multiplier less.
	if ms.Time >= mt.Time {
		t.Errorf("shopping time multiplier %f should be below transportation %f", ms.Time, mt.Time)
	}
}

func TestEmptyDecisionDefaultsToTransportation(t *testing.T) {
	e := testContextEngine(t)
	ctx := Context{Urgency: UrgencyHigh, Day: DayWeekday, Weather: WeatherRain, Availability: 1.0}

	implicit, _, err := e.Multipliers(ctx)
	if err != nil {
		t.Fatalf("Multipliers: %v", err)
	}
	ctx.Decision = DecisionTransportation
	explicit, _, err := e.Multipliers(ctx)
	if err != nil {
		t.Fatalf("Multipliers: %v", err)
	}
	if implicit != explicit {
		t.Errorf("empty decision %+v != transportation %+v", implicit, explicit)
	}
}

func TestNewContextEngineRejectsBadBounds(t *testing.T) {
	if _, err := NewContextEngine(MultiplierBounds{Min: 0, Max: 2}, DefaultAnchors(), nil); err == nil {
		t.Error("expected error for zero min bound")
	}
	if _, err := NewContextEngine(MultiplierBounds{Min: 2, Max: 1}, DefaultAnchors(), nil); err == nil {
		t.Error("expected error for inverted bounds")
	}
}
