// seed_demo.go — standalone script to seed a demo session via the convd API:
// creates the session, runs one evaluation, and records a handful of choices
// so the learned weights move off their defaults.
//
// Usage:
//
//	go run scripts/seed_demo.go -api http://localhost:8700 -name demo -choices 10
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type option map[string]interface{}

var demoContext = map[string]interface{}{
	"urgency":      "high",
	"day":          "weekday",
	"weather":      "rain",
	"availability": 0.3,
	"decision":     "transportation",
}

// rideshare vs bus: the pair from every onboarding demo. The rideshare saves
// more time and residual stress but costs more.
var rideshare = option{
	"name":                       "rideshare",
	"time_saved_minutes":         25,
	"monetary_cost":              18,
	"baseline_stress_multiplier": 0.6,
	"time_allocation":            map[string]float64{"work": 0.5, "leisure": 0.5},
	"ergonomics":                 0.8,
	"ambiance":                   0.7,
	"control":                    0.6,
	"failure_probability":        0.05,
	"failure_severity":           0.8,
}

var bus = option{
	"name":                       "bus",
	"time_saved_minutes":         5,
	"monetary_cost":              2.5,
	"baseline_stress_multiplier": 0.9,
	"time_allocation":            map[string]float64{"leisure": 1.0},
	"ergonomics":                 0.4,
	"ambiance":                   0.3,
	"control":                    0.2,
	"failure_probability":        0.15,
	"failure_severity":           0.5,
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "convd API base URL")
	name := flag.String("name", "demo", "session name")
	choices := flag.Int("choices", 10, "number of choice observations to record")
	dryRun := flag.Bool("dry-run", false, "print payloads without posting")
	flag.Parse()

	if *dryRun {
		dump("create session", map[string]string{"name": *name})
		dump("evaluate", map[string]interface{}{
			"options": []option{rideshare, bus},
			"context": demoContext,
		})
		return
	}

	// 1. Create the session.
	var session struct {
		ID string `json:"session_id"`
	}
	if err := post(*apiURL+"/api/v1/sessions", map[string]string{"name": *name}, &session); err != nil {
		log.Fatalf("create session: %v", err)
	}
	log.Printf("created session %s (%s)", *name, session.ID)

	base := fmt.Sprintf("%s/api/v1/sessions/%s", *apiURL, session.ID)

	// 2. Run one evaluation so the session has an explained breakdown.
	var eval struct {
		EvaluationID string `json:"evaluation_id"`
		Results      []struct {
			Name string  `json:"name"`
			MCV  float64 `json:"mcv"`
			Rank int     `json:"rank"`
		} `json:"results"`
	}
	evalReq := map[string]interface{}{
		"options": []option{rideshare, bus},
		"context": demoContext,
	}
	if err := post(base+"/evaluate", evalReq, &eval); err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	for _, r := range eval.Results {
		log.Printf("  #%d %s mcv=%.4f", r.Rank, r.Name, r.MCV)
	}

	// 3. Record repeated rideshare-over-bus choices to nudge the weights.
	obs := make([]map[string]interface{}, 0, *choices)
	for i := 0; i < *choices; i++ {
		obs = append(obs, map[string]interface{}{
			"chosen":   rideshare,
			"rejected": bus,
			"context":  demoContext,
		})
	}
	var update struct {
		Weights    json.RawMessage `json:"weights"`
		Applied    int             `json:"applied"`
		Skipped    int             `json:"skipped"`
		Confidence float64         `json:"confidence"`
	}
	if err := post(base+"/choices", map[string]interface{}{"observations": obs}, &update); err != nil {
		log.Fatalf("record choices: %v", err)
	}
	log.Printf("recorded %d choices (skipped %d), confidence=%.3f", update.Applied, update.Skipped, update.Confidence)
	log.Printf("weights: %s", update.Weights)
}

func post(url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func dump(label string, payload interface{}) {
	b, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Printf("--- %s ---\n%s\n", label, b)
}
