// Package store defines the persistence model for Ava interview sessions.
//
// A [Session] is a self-contained record of one mock interview: the chat
// transcript, the emotion/behavior/detection signal history captured while the
// candidate was on camera, proctoring warnings, and the live score trio. An
// [Analysis] is the post-interview report derived from a completed session.
//
// Sessions are persisted as whole snapshots: the interview controller owns the
// live session in memory and calls [Store.PutSession] at milestones (message
// exchanged, signal batch recorded, status change). This keeps the store
// interface small and makes every backend trivially consistent — there is no
// partial-update protocol to get wrong.
//
// Two backends are provided: pkg/store/memstore (in-process, used by default
// and in tests) and pkg/store/postgres (pgx-backed, for deployments that need
// sessions to survive restarts).
//
// All implementations must be safe for concurrent use.
package store

import (
	"context"
)

// ListOpts narrows a [Store.ListSessions] query.
// All non-zero fields are applied as AND conditions.
type ListOpts struct {
	// Status restricts results to sessions in the given lifecycle state.
	// An empty string matches all states.
	Status SessionStatus

	// Limit caps the number of results returned.
	// A value of 0 means the implementation may apply its own default.
	Limit int
}

// Store persists interview sessions and their post-interview analyses.
//
// Lookup methods return (nil, nil) when the requested record does not exist;
// an error indicates a storage failure, never a miss. Deletions of
// non-existent records are not errors.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// PutSession upserts a complete session snapshot.
	// If a session with the same ID already exists it is replaced.
	PutSession(ctx context.Context, s Session) error

	// GetSession retrieves a session by its unique ID.
	// Returns (nil, nil) when the session does not exist.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions returns sessions matching opts, most recently ended first
	// (sessions that have not ended sort after those that have, newest start
	// first). Returns an empty (non-nil) slice when no sessions match.
	ListSessions(ctx context.Context, opts ListOpts) ([]Session, error)

	// DeleteSession removes a session and its analysis, if any.
	// Deleting a non-existent session is not an error.
	DeleteSession(ctx context.Context, id string) error

	// PutAnalysis upserts the post-interview analysis for a session.
	// The session identified by a.SessionID must already exist.
	PutAnalysis(ctx context.Context, a Analysis) error

	// GetAnalysis retrieves the stored analysis for a session.
	// Returns (nil, nil) when no analysis has been stored.
	GetAnalysis(ctx context.Context, sessionID string) (*Analysis, error)
}
