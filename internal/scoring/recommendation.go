package scoring

// RecommendationStrength grades how decisively the top option wins.
type RecommendationStrength string

const (
	RecommendStrong   RecommendationStrength = "strong"
	RecommendModerate RecommendationStrength = "moderate"
	RecommendWeak     RecommendationStrength = "weak"
	RecommendTossup   RecommendationStrength = "tossup"
)

// Recommendation summarises a ranked evaluation for presentation.
type Recommendation struct {
	Option     string                 `json:"option"`
	Strength   RecommendationStrength `json:"strength"`
	MarginPct  float64                `json:"margin_pct"`
	Confidence float64                `json:"confidence"`
}

// DeriveRecommendation maps the relative MCV gap between the top two options
// onto a strength level, discounted by the learner's confidence in the weight
// vector. With learned confidence below 0.3 the strength is capped at weak,
// since the margin mostly reflects default weights rather than observed
// preference.
func DeriveRecommendation(results []MCVResult, confidence float64) Recommendation {
	rec := Recommendation{Confidence: confidence}
	if len(results) == 0 {
		rec.Strength = RecommendTossup
		return rec
	}
	rec.Option = results[0].Name
	if len(results) == 1 {
		rec.Strength = RecommendStrong
		rec.MarginPct = 100
		return rec
	}

	top, second := results[0].MCV, results[1].MCV
	if top <= 0 {
		rec.Strength = RecommendTossup
		return rec
	}
	margin := (top - second) / top
	rec.MarginPct = margin * 100

	switch {
	case margin < 0.02:
		rec.Strength = RecommendTossup
	case margin < 0.10:
		rec.Strength = RecommendWeak
	case margin < 0.25:
		rec.Strength = RecommendModerate
	default:
		rec.Strength = RecommendStrong
	}

	if confidence < 0.3 && rec.Strength != RecommendTossup {
		rec.Strength = RecommendWeak
	}
	return rec
}
