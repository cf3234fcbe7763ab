// Package memstore provides an in-process implementation of [store.Store].
//
// It is the default backend: sessions live for the lifetime of the process,
// which mirrors the browser-local persistence model the interview flow was
// designed around. Use pkg/store/postgres when sessions must survive restarts.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store is a mutex-guarded in-memory [store.Store].
// The zero value is not usable; construct with [New].
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]store.Session
	analyses map[string]store.Analysis
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		sessions: make(map[string]store.Session),
		analyses: make(map[string]store.Analysis),
	}
}

// PutSession implements [store.Store]. Snapshots are deep-copied on the way
// in so later mutations by the caller cannot alias stored state.
func (s *Store) PutSession(_ context.Context, sess store.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("memstore: put session: empty session ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

// GetSession implements [store.Store].
func (s *Store) GetSession(_ context.Context, id string) (*store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := cloneSession(sess)
	return &out, nil
}

// ListSessions implements [store.Store]. Results are ordered most recently
// ended first; sessions without an end time sort after those with one,
// newest start first.
func (s *Store) ListSessions(_ context.Context, opts store.ListOpts) ([]store.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []store.Session{}
	for _, sess := range s.sessions {
		if opts.Status != "" && sess.Status != opts.Status {
			continue
		}
		out = append(out, cloneSession(sess))
	}

	slices.SortFunc(out, func(a, b store.Session) int {
		switch {
		case !a.EndedAt.IsZero() && !b.EndedAt.IsZero():
			return b.EndedAt.Compare(a.EndedAt)
		case a.EndedAt.IsZero() && b.EndedAt.IsZero():
			return b.StartedAt.Compare(a.StartedAt)
		case a.EndedAt.IsZero():
			return 1
		default:
			return -1
		}
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// DeleteSession implements [store.Store].
func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.analyses, id)
	return nil
}

// PutAnalysis implements [store.Store].
func (s *Store) PutAnalysis(_ context.Context, a store.Analysis) error {
	if a.SessionID == "" {
		return fmt.Errorf("memstore: put analysis: empty session ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[a.SessionID]; !ok {
		return fmt.Errorf("memstore: put analysis: session %q does not exist", a.SessionID)
	}
	s.analyses[a.SessionID] = cloneAnalysis(a)
	return nil
}

// GetAnalysis implements [store.Store].
func (s *Store) GetAnalysis(_ context.Context, sessionID string) (*store.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.analyses[sessionID]
	if !ok {
		return nil, nil
	}
	out := cloneAnalysis(a)
	return &out, nil
}

// cloneSession returns a deep copy of sess.
func cloneSession(sess store.Session) store.Session {
	out := sess
	out.Messages = slices.Clone(sess.Messages)
	out.Emotions = slices.Clone(sess.Emotions)
	out.Behavior = slices.Clone(sess.Behavior)
	out.Detections = slices.Clone(sess.Detections)
	out.Warnings = slices.Clone(sess.Warnings)
	return out
}

// cloneAnalysis returns a deep copy of a.
func cloneAnalysis(a store.Analysis) store.Analysis {
	out := a
	out.Strengths = slices.Clone(a.Strengths)
	out.Weaknesses = slices.Clone(a.Weaknesses)
	out.CoachingTips = slices.Clone(a.CoachingTips)
	return out
}
