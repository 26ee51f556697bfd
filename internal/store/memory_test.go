package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/choicemetrics/convd/internal/scoring"
)

func TestMemoryStoreSessions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{Name: "commute", Weights: scoring.DefaultWeights()}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Fatal("expected assigned session ID")
	}
	if sess.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil || got.Name != "commute" {
		t.Fatalf("GetSession returned %+v", got)
	}
	if got.Weights != scoring.DefaultWeights() {
		t.Errorf("weights = %+v", got.Weights)
	}

	// Mutating the returned copy must not touch the stored session.
	got.Name = "mutated"
	again, _ := s.GetSession(ctx, sess.ID)
	if again.Name != "commute" {
		t.Error("GetSession returned a shared pointer, not a copy")
	}

	missing, err := s.GetSession(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetSession missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown session, got %+v", missing)
	}
}

func TestMemoryStoreUpdateWeights(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{Name: "dinner", Weights: scoring.DefaultWeights()}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	next := scoring.UniformWeights()
	if err := s.UpdateSessionWeights(ctx, sess.ID, next, 7); err != nil {
		t.Fatalf("UpdateSessionWeights: %v", err)
	}
	got, _ := s.GetSession(ctx, sess.ID)
	if got.Weights != next {
		t.Errorf("weights = %+v, want %+v", got.Weights, next)
	}
	if got.Observations != 7 {
		t.Errorf("observations = %d, want 7", got.Observations)
	}

	if err := s.UpdateSessionWeights(ctx, uuid.New(), next, 1); err == nil {
		t.Error("expected error updating unknown session")
	}
}

func TestMemoryStoreListSessions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := s.CreateSession(ctx, &Session{Name: name, Weights: scoring.DefaultWeights()}); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}
	list, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Error("sessions not in newest-first order")
		}
	}
}

func TestMemoryStoreObservations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{Name: "x", Weights: scoring.DefaultWeights()}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	for i := 0; i < 5; i++ {
		o := &Observation{
			SessionID: sess.ID,
			Chosen:    "a",
			Rejected:  "b",
			Applied:   true,
		}
		if err := s.RecordObservation(ctx, o); err != nil {
			t.Fatalf("RecordObservation: %v", err)
		}
		if o.ID == uuid.Nil {
			t.Fatal("expected assigned observation ID")
		}
	}

	list, err := s.ListObservations(ctx, sess.ID, 3)
	if err != nil {
		t.Fatalf("ListObservations: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("limit ignored: got %d observations", len(list))
	}

	all, err := s.ListObservations(ctx, sess.ID, 0)
	if err != nil {
		t.Fatalf("ListObservations: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("default limit: got %d observations, want 5", len(all))
	}
	// Newest first.
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Error("observations not in newest-first order")
		}
	}

	empty, err := s.ListObservations(ctx, uuid.New(), 10)
	if err != nil {
		t.Fatalf("ListObservations: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no observations for unknown session, got %d", len(empty))
	}
}

func TestMemoryStoreEvaluations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	e := &Evaluation{
		SessionID: uuid.New(),
		Context:   scoring.Context{Urgency: scoring.UrgencyHigh, Day: scoring.DayWeekday, Weather: scoring.WeatherRain, Availability: 1},
		Results:   []scoring.MCVResult{{Name: "a", MCV: 0.5, Rank: 1}},
	}
	if err := s.SaveEvaluation(ctx, e); err != nil {
		t.Fatalf("SaveEvaluation: %v", err)
	}
	if e.ID == uuid.Nil {
		t.Fatal("expected assigned evaluation ID")
	}

	got, err := s.GetEvaluation(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvaluation: %v", err)
	}
	if got == nil || len(got.Results) != 1 || got.Results[0].Name != "a" {
		t.Fatalf("GetEvaluation returned %+v", got)
	}

	missing, err := s.GetEvaluation(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetEvaluation missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown evaluation, got %+v", missing)
	}
}
