// Package postgres provides a PostgreSQL-backed implementation of [store.Store].
//
// Session snapshots are stored as one row per session: scalar columns for the
// fields that queries filter and sort on, JSONB columns for the nested signal
// histories. Analyses live in their own table keyed by session ID so a report
// can be regenerated without touching session data.
//
// Usage:
//
//	st, err := postgres.NewStore(ctx, dsn)
//	if err != nil { … }
//	defer st.Close()
//
//	_ = st.PutSession(ctx, session)
//	sessions, _ := st.ListSessions(ctx, store.ListOpts{Status: store.StatusCompleted})
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const ddlSessions = `
CREATE TABLE IF NOT EXISTS interview_sessions (
    id                 TEXT         PRIMARY KEY,
    candidate_name     TEXT         NOT NULL DEFAULT '',
    job_title          TEXT         NOT NULL DEFAULT '',
    duration_minutes   INT          NOT NULL DEFAULT 0,
    backend            TEXT         NOT NULL DEFAULT '',
    status             TEXT         NOT NULL,
    started_at         TIMESTAMPTZ  NOT NULL,
    ended_at           TIMESTAMPTZ,
    termination_reason TEXT         NOT NULL DEFAULT '',
    question_count     INT          NOT NULL DEFAULT 0,
    scores             JSONB        NOT NULL DEFAULT '{}',
    messages           JSONB        NOT NULL DEFAULT '[]',
    emotions           JSONB        NOT NULL DEFAULT '[]',
    behavior           JSONB        NOT NULL DEFAULT '[]',
    detections         JSONB        NOT NULL DEFAULT '[]',
    warnings           JSONB        NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_status
    ON interview_sessions (status);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_ended_at
    ON interview_sessions (ended_at DESC NULLS LAST, started_at DESC);
`

const ddlAnalyses = `
CREATE TABLE IF NOT EXISTS interview_analyses (
    session_id   TEXT         PRIMARY KEY
                 REFERENCES interview_sessions (id) ON DELETE CASCADE,
    report       JSONB        NOT NULL,
    generated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);
`

// Migrate creates or ensures all required database tables exist. It is
// idempotent (CREATE TABLE IF NOT EXISTS / CREATE INDEX IF NOT EXISTS) and
// safe to call on every application start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range []string{ddlSessions, ddlAnalyses} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate: %w", err)
		}
	}
	return nil
}
