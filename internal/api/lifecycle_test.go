package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choicemetrics/convd/internal/learning"
	"github.com/choicemetrics/convd/internal/scoring"
)

// TestSessionLifecycle exercises the full happy path: create a session,
// evaluate options, feed back the real-world choices, and watch the weights
// and confidence move, then reset back to defaults.
func TestSessionLifecycle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	sess := createSession(t, router, "lifecycle")
	id := sess.ID.String()

	// 1. First evaluation under default weights.
	w := doJSON(t, router, "POST", "/api/v1/sessions/"+id+"/evaluate", evaluateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var eval EvaluateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&eval))
	require.Len(t, eval.Results, 2)
	assert.Equal(t, "rideshare", eval.Results[0].Name)

	// 2. The decision-maker keeps picking the bus: stress relief and cost
	// matter less to them than the defaults assume; time weight should drop.
	choiceBody := `{
		"observations": [{
			"chosen": {"name":"bus","time_saved_minutes":5,"monetary_cost":1,"baseline_stress_multiplier":0.9,"failure_probability":0.0},
			"rejected": {"name":"rideshare","time_saved_minutes":25,"monetary_cost":8,"baseline_stress_multiplier":0.6,"failure_probability":0.02,"failure_severity":1.0},
			"context": {"urgency":"high","day":"weekday","weather":"rain","availability":1.0}
		}]
	}`
	var last learning.UpdateResult
	for i := 0; i < 25; i++ {
		cw := doJSON(t, router, "POST", "/api/v1/sessions/"+id+"/choices", choiceBody)
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())
		require.NoError(t, json.NewDecoder(cw.Body).Decode(&last))
	}
	assert.Equal(t, 25, last.Seen)
	assert.Less(t, last.Weights.Time, scoring.DefaultWeights().Time,
		"repeatedly rejecting the time-saver should shrink the time weight")
	assert.Greater(t, last.Weights.Reliability, scoring.DefaultWeights().Reliability,
		"the chosen option wins on reliability")
	assert.Greater(t, last.Confidence, 0.5, "confidence past theta observations")

	// 3. Re-evaluating under the learned weights narrows the margin: the
	// weights have drained out of the dimensions where the rideshare
	// dominates.
	w = doJSON(t, router, "POST", "/api/v1/sessions/"+id+"/evaluate", evaluateBody)
	require.Equal(t, http.StatusOK, w.Code)
	var second EvaluateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))
	assert.Less(t, second.Recommendation.MarginPct, eval.Recommendation.MarginPct,
		"learned weights should narrow the gap to the repeatedly chosen option")

	// 4. Admin reset restores the defaults.
	req := httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/weights/reset", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)

	w = doJSON(t, router, "GET", "/api/v1/sessions/"+id+"/weights", "")
	require.Equal(t, http.StatusOK, w.Code)
	var weights struct {
		Weights      scoring.WeightVector `json:"weights"`
		Observations int                  `json:"observations"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&weights))
	assert.Equal(t, scoring.DefaultWeights(), weights.Weights)
	assert.Zero(t, weights.Observations)
}
