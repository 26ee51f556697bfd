package scoring

import (
	"fmt"
	"log/slog"
)

// Urgency grades how time-pressed the decision is.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// DayType classifies the calendar situation.
type DayType string

const (
	DayWeekday DayType = "weekday"
	DayWeekend DayType = "weekend"
	DayHoliday DayType = "holiday"
)

// Weather classifies the weather situation.
type Weather string

const (
	WeatherClear       Weather = "clear"
	WeatherRain        Weather = "rain"
	WeatherSnow        Weather = "snow"
	WeatherStorm       Weather = "storm"
	WeatherExtremeHeat Weather = "extreme_heat"
)

// DecisionType identifies the kind of convenience decision being made.
// Different decision types are sensitive to different context factors.
type DecisionType string

const (
	DecisionTransportation DecisionType = "transportation"
	DecisionFood           DecisionType = "food"
	DecisionShopping       DecisionType = "shopping"
	DecisionServices       DecisionType = "services"
	DecisionEntertainment  DecisionType = "entertainment"
)

// Context is the situational snapshot supplied with each evaluation.
// Availability is the fraction of the decision-maker's schedule that is
// actually free, in [0, 1].
type Context struct {
	Urgency      Urgency      `json:"urgency"`
	Day          DayType      `json:"day"`
	Weather      Weather      `json:"weather"`
	Availability float64      `json:"availability"`
	Decision     DecisionType `json:"decision,omitempty"`
}

// Per-dimension base multipliers in canonical dimension order
// [time, stress, opportunity, comfort, reliability]. The low/weekday/clear
// rows are identity so that a default context multiplies nothing.
var urgencyTable = map[Urgency][5]float64{
	UrgencyLow:      {1.0, 1.0, 1.0, 1.0, 1.0},
	UrgencyMedium:   {1.15, 1.10, 1.05, 0.95, 1.05},
	UrgencyHigh:     {1.40, 1.30, 1.10, 0.90, 1.15},
	UrgencyCritical: {1.80, 1.50, 1.20, 0.80, 1.30},
}

var dayTable = map[DayType][5]float64{
	DayWeekday: {1.0, 1.0, 1.0, 1.0, 1.0},
	DayWeekend: {0.90, 0.95, 1.10, 1.05, 1.00},
	DayHoliday: {0.80, 0.90, 1.15, 1.10, 0.95},
}

var weatherTable = map[Weather][5]float64{
	WeatherClear:       {1.0, 1.0, 1.0, 1.0, 1.0},
	WeatherRain:        {1.20, 1.25, 1.00, 1.10, 1.10},
	WeatherSnow:        {1.35, 1.35, 1.00, 1.15, 1.20},
	WeatherStorm:       {1.50, 1.45, 1.00, 1.20, 1.30},
	WeatherExtremeHeat: {1.10, 1.15, 1.00, 1.25, 1.05},
}

// decisionSensitivity scales how strongly each categorical factor moves the
// multipliers for a given decision type: 1.0 passes the table value through,
// 0.0 neutralizes the factor entirely. Order: urgency, day, weather.
var decisionSensitivity = map[DecisionType][3]float64{
	DecisionTransportation: {0.9, 0.7, 0.8},
	DecisionFood:           {0.8, 0.8, 0.6},
	DecisionShopping:       {0.6, 0.5, 0.4},
	DecisionServices:       {0.7, 0.9, 0.3},
	DecisionEntertainment:  {0.8, 0.6, 0.5},
}

// MultiplierBounds limits every context multiplier to a configured range.
type MultiplierBounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// AvailabilityAnchors configure the linear interpolation of the availability
// factor: availability 0.0 maps to AtZero, 1.0 maps to AtOne.
type AvailabilityAnchors struct {
	AtZero float64 `yaml:"at_zero"`
	AtOne  float64 `yaml:"at_one"`
}

// DefaultBounds returns the standard multiplier clamp range.
func DefaultBounds() MultiplierBounds { return MultiplierBounds{Min: 0.5, Max: 2.0} }

// DefaultAnchors returns the standard availability interpolation anchors.
func DefaultAnchors() AvailabilityAnchors { return AvailabilityAnchors{AtZero: 0.5, AtOne: 1.0} }

// ContextEngine maps a Context to the per-dimension MultiplierVector.
// It is stateless and safe for concurrent use.
type ContextEngine struct {
	bounds  MultiplierBounds
	anchors AvailabilityAnchors
	logger  *slog.Logger
}

// NewContextEngine creates a ContextEngine with the given bounds and anchors.
func NewContextEngine(bounds MultiplierBounds, anchors AvailabilityAnchors, logger *slog.Logger) (*ContextEngine, error) {
	if bounds.Min <= 0 || bounds.Max < bounds.Min {
		return nil, validationErr("bounds", fmt.Sprintf("[%g, %g]", bounds.Min, bounds.Max), "must satisfy 0 < min <= max")
	}
	return &ContextEngine{bounds: bounds, anchors: anchors, logger: logger}, nil
}

// Multipliers computes the MultiplierVector for a context. Unknown categorical
// values are rejected; an availability fraction outside [0, 1] is clamped with
// a recorded warning since it may be a rounding artifact upstream.
func (e *ContextEngine) Multipliers(ctx Context) (MultiplierVector, []string, error) {
	urg, ok := urgencyTable[ctx.Urgency]
	if !ok {
		return MultiplierVector{}, nil, validationErr("context.urgency", ctx.Urgency, "unknown urgency level")
	}
	day, ok := dayTable[ctx.Day]
	if !ok {
		return MultiplierVector{}, nil, validationErr("context.day", ctx.Day, "unknown day type")
	}
	wea, ok := weatherTable[ctx.Weather]
	if !ok {
		return MultiplierVector{}, nil, validationErr("context.weather", ctx.Weather, "unknown weather condition")
	}
	decision := ctx.Decision
	if decision == "" {
		decision = DecisionTransportation
	}
	sens, ok := decisionSensitivity[decision]
	if !ok {
		return MultiplierVector{}, nil, validationErr("context.decision", ctx.Decision, "unknown decision type")
	}

	var warnings []string
	avail := ctx.Availability
	if avail < 0 || avail > 1 {
		clamped := clamp01(avail)
		warnings = append(warnings, fmt.Sprintf("availability %g clamped to %g", avail, clamped))
		if e.logger != nil {
			e.logger.Warn("availability outside [0,1], clamped", "value", avail, "clamped", clamped)
		}
		avail = clamped
	}
	availFactor := e.anchors.AtZero + (e.anchors.AtOne-e.anchors.AtZero)*avail

	var out [5]float64
	for d := 0; d < 5; d++ {
		m := scaleToward(urg[d], sens[0]) * scaleToward(day[d], sens[1]) * scaleToward(wea[d], sens[2]) * availFactor
		out[d] = clamp(m, e.bounds.Min, e.bounds.Max)
	}
	return MultiplierVector{
		Time:        out[0],
		Stress:      out[1],
		Opportunity: out[2],
		Comfort:     out[3],
		Reliability: out[4],
	}, warnings, nil
}

// Validate checks the categorical fields without computing multipliers.
func (e *ContextEngine) Validate(ctx Context) error {
	_, _, err := e.Multipliers(ctx)
	return err
}

// scaleToward moves a table multiplier toward 1.0 by the decision-type
// sensitivity: 1 + s*(m-1).
func scaleToward(m, s float64) float64 { return 1 + s*(m-1) }
