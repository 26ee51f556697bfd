package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choicemetrics/convd/internal/scoring"
)

// PostgresStore persists everything in Postgres via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	weightsJSON, _ := json.Marshal(sess.Weights)
	return s.pool.QueryRow(ctx, `
		INSERT INTO convd_sessions (name, weights, observations)
		VALUES ($1, $2, $3)
		RETURNING session_id, created_at, updated_at`,
		sess.Name, weightsJSON, sess.Observations,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess := &Session{}
	var weightsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT session_id, name, weights, observations, created_at, updated_at
		FROM convd_sessions WHERE session_id = $1`, id,
	).Scan(&sess.ID, &sess.Name, &weightsJSON, &sess.Observations, &sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weightsJSON, &sess.Weights); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, name, weights, observations, created_at, updated_at
		FROM convd_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var weightsJSON []byte
		if err := rows.Scan(&sess.ID, &sess.Name, &weightsJSON, &sess.Observations, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(weightsJSON, &sess.Weights); err != nil {
			return nil, fmt.Errorf("decode weights: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *PostgresStore) UpdateSessionWeights(ctx context.Context, id uuid.UUID, w scoring.WeightVector, observations int) error {
	weightsJSON, _ := json.Marshal(w)
	tag, err := s.pool.Exec(ctx, `
		UPDATE convd_sessions
		SET weights = $2, observations = $3, updated_at = now()
		WHERE session_id = $1`,
		id, weightsJSON, observations)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

func (s *PostgresStore) RecordObservation(ctx context.Context, o *Observation) error {
	ctxJSON, _ := json.Marshal(o.Context)
	payloadJSON, _ := json.Marshal(o.Payload)
	return s.pool.QueryRow(ctx, `
		INSERT INTO convd_observations (session_id, chosen, rejected, context, payload, applied)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING observation_id, created_at`,
		o.SessionID, o.Chosen, o.Rejected, ctxJSON, payloadJSON, o.Applied,
	).Scan(&o.ID, &o.CreatedAt)
}

func (s *PostgresStore) ListObservations(ctx context.Context, sessionID uuid.UUID, limit int) ([]*Observation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT observation_id, session_id, chosen, rejected, context, payload, applied, created_at
		FROM convd_observations
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []*Observation
	for rows.Next() {
		o := &Observation{}
		var ctxJSON, payloadJSON []byte
		if err := rows.Scan(&o.ID, &o.SessionID, &o.Chosen, &o.Rejected, &ctxJSON, &payloadJSON, &o.Applied, &o.CreatedAt); err != nil {
			return nil, err
		}
		if ctxJSON != nil {
			_ = json.Unmarshal(ctxJSON, &o.Context)
		}
		if payloadJSON != nil {
			_ = json.Unmarshal(payloadJSON, &o.Payload)
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (s *PostgresStore) SaveEvaluation(ctx context.Context, e *Evaluation) error {
	ctxJSON, _ := json.Marshal(e.Context)
	resultsJSON, _ := json.Marshal(e.Results)
	return s.pool.QueryRow(ctx, `
		INSERT INTO convd_evaluations (session_id, context, results)
		VALUES ($1, $2, $3)
		RETURNING evaluation_id, created_at`,
		e.SessionID, ctxJSON, resultsJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	e := &Evaluation{}
	var ctxJSON, resultsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT evaluation_id, session_id, context, results, created_at
		FROM convd_evaluations WHERE evaluation_id = $1`, id,
	).Scan(&e.ID, &e.SessionID, &ctxJSON, &resultsJSON, &e.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(ctxJSON, &e.Context)
	_ = json.Unmarshal(resultsJSON, &e.Results)
	return e, nil
}
