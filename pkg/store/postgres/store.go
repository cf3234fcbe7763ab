package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is the PostgreSQL-backed session store. It holds a single
// [pgxpool.Pool]; all operations are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore establishes a connection pool to the PostgreSQL database at dsn
// and runs [Migrate] to ensure all required tables exist.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases all connections held by the underlying connection pool.
// It should be called when the Store is no longer needed, typically via defer.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity. Used by readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// PutSession implements [store.Store]. It upserts the full session snapshot;
// an existing row with the same ID is completely replaced.
func (s *Store) PutSession(ctx context.Context, sess store.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("postgres store: put session: empty session ID")
	}

	scores, err := json.Marshal(sess.Scores)
	if err != nil {
		return fmt.Errorf("postgres store: marshal scores: %w", err)
	}
	messages, err := marshalSlice(sess.Messages)
	if err != nil {
		return fmt.Errorf("postgres store: marshal messages: %w", err)
	}
	emotions, err := marshalSlice(sess.Emotions)
	if err != nil {
		return fmt.Errorf("postgres store: marshal emotions: %w", err)
	}
	behavior, err := marshalSlice(sess.Behavior)
	if err != nil {
		return fmt.Errorf("postgres store: marshal behavior: %w", err)
	}
	detections, err := marshalSlice(sess.Detections)
	if err != nil {
		return fmt.Errorf("postgres store: marshal detections: %w", err)
	}
	warnings, err := marshalSlice(sess.Warnings)
	if err != nil {
		return fmt.Errorf("postgres store: marshal warnings: %w", err)
	}

	const q = `
		INSERT INTO interview_sessions
		    (id, candidate_name, job_title, duration_minutes, backend, status,
		     started_at, ended_at, termination_reason, question_count,
		     scores, messages, emotions, behavior, detections, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
		    candidate_name     = EXCLUDED.candidate_name,
		    job_title          = EXCLUDED.job_title,
		    duration_minutes   = EXCLUDED.duration_minutes,
		    backend            = EXCLUDED.backend,
		    status             = EXCLUDED.status,
		    started_at         = EXCLUDED.started_at,
		    ended_at           = EXCLUDED.ended_at,
		    termination_reason = EXCLUDED.termination_reason,
		    question_count     = EXCLUDED.question_count,
		    scores             = EXCLUDED.scores,
		    messages           = EXCLUDED.messages,
		    emotions           = EXCLUDED.emotions,
		    behavior           = EXCLUDED.behavior,
		    detections         = EXCLUDED.detections,
		    warnings           = EXCLUDED.warnings`

	_, err = s.pool.Exec(ctx, q,
		sess.ID,
		sess.CandidateName,
		sess.JobTitle,
		sess.DurationMinutes,
		sess.Backend,
		string(sess.Status),
		sess.StartedAt,
		nullableTime(sess.EndedAt),
		sess.TerminationReason,
		sess.QuestionCount,
		scores, messages, emotions, behavior, detections, warnings,
	)
	if err != nil {
		return fmt.Errorf("postgres store: put session: %w", err)
	}
	return nil
}

// GetSession implements [store.Store].
func (s *Store) GetSession(ctx context.Context, id string) (*store.Session, error) {
	const q = sessionColumns + `
		FROM   interview_sessions
		WHERE  id = $1`

	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("postgres store: get session: %w", err)
	}
	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// ListSessions implements [store.Store]. Ordering follows the interface
// contract: most recently ended first, unfinished sessions last by start time.
func (s *Store) ListSessions(ctx context.Context, opts store.ListOpts) ([]store.Session, error) {
	q := sessionColumns + "\nFROM   interview_sessions"
	args := []any{}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		q += fmt.Sprintf("\nWHERE  status = $%d", len(args))
	}
	q += "\nORDER  BY ended_at DESC NULLS LAST, started_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf("\nLIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres store: list sessions: %w", err)
	}
	return collectSessions(rows)
}

// DeleteSession implements [store.Store]. The analysis row, if any, is
// removed by the ON DELETE CASCADE constraint.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM interview_sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("postgres store: delete session: %w", err)
	}
	return nil
}

// PutAnalysis implements [store.Store]. The whole report is stored as one
// JSONB document; GeneratedAt is mirrored into its own column for ordering.
func (s *Store) PutAnalysis(ctx context.Context, a store.Analysis) error {
	if a.SessionID == "" {
		return fmt.Errorf("postgres store: put analysis: empty session ID")
	}
	report, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("postgres store: marshal analysis: %w", err)
	}

	const q = `
		INSERT INTO interview_analyses (session_id, report, generated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
		    report       = EXCLUDED.report,
		    generated_at = EXCLUDED.generated_at`

	if _, err := s.pool.Exec(ctx, q, a.SessionID, report, a.GeneratedAt); err != nil {
		return fmt.Errorf("postgres store: put analysis: %w", err)
	}
	return nil
}

// GetAnalysis implements [store.Store].
func (s *Store) GetAnalysis(ctx context.Context, sessionID string) (*store.Analysis, error) {
	var report []byte
	err := s.pool.QueryRow(ctx,
		"SELECT report FROM interview_analyses WHERE session_id = $1", sessionID,
	).Scan(&report)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres store: get analysis: %w", err)
	}

	var a store.Analysis
	if err := json.Unmarshal(report, &a); err != nil {
		return nil, fmt.Errorf("postgres store: unmarshal analysis: %w", err)
	}
	return &a, nil
}

const sessionColumns = `
		SELECT id, candidate_name, job_title, duration_minutes, backend, status,
		       started_at, ended_at, termination_reason, question_count,
		       scores, messages, emotions, behavior, detections, warnings`

// collectSessions scans pgx rows into a slice of Session values.
func collectSessions(rows pgx.Rows) ([]store.Session, error) {
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Session, error) {
		var (
			sess    store.Session
			status  string
			endedAt *time.Time

			scores, messages, emotions, behavior, detections, warnings []byte
		)
		if err := row.Scan(
			&sess.ID,
			&sess.CandidateName,
			&sess.JobTitle,
			&sess.DurationMinutes,
			&sess.Backend,
			&status,
			&sess.StartedAt,
			&endedAt,
			&sess.TerminationReason,
			&sess.QuestionCount,
			&scores, &messages, &emotions, &behavior, &detections, &warnings,
		); err != nil {
			return store.Session{}, err
		}
		sess.Status = store.SessionStatus(status)
		if endedAt != nil {
			sess.EndedAt = *endedAt
		}
		if err := json.Unmarshal(scores, &sess.Scores); err != nil {
			return store.Session{}, err
		}
		for _, f := range []struct {
			raw []byte
			dst any
		}{
			{messages, &sess.Messages},
			{emotions, &sess.Emotions},
			{behavior, &sess.Behavior},
			{detections, &sess.Detections},
			{warnings, &sess.Warnings},
		} {
			if err := json.Unmarshal(f.raw, f.dst); err != nil {
				return store.Session{}, err
			}
		}
		return sess, nil
	})
	if err != nil {
		return nil, fmt.Errorf("postgres store: scan rows: %w", err)
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	return sessions, nil
}

// marshalSlice marshals s, coercing a nil slice to an empty JSON array so
// round-tripped sessions compare equal regardless of backend.
func marshalSlice[T any](s []T) ([]byte, error) {
	if s == nil {
		s = []T{}
	}
	return json.Marshal(s)
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
