// Package mock provides test doubles for the vision package interfaces.
package mock

import (
	"context"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/vision"
)

// StartStreamCall records a single invocation of Source.StartStream.
type StartStreamCall struct {
	// Ctx is the context passed to StartStream.
	Ctx context.Context
	// Cfg is the StreamConfig passed to StartStream.
	Cfg vision.StreamConfig
}

// Source is a mock implementation of vision.Source.
type Source struct {
	mu sync.Mutex

	// Session is the SessionHandle returned by StartStream. If nil,
	// StartStream returns a new default Session with a buffered channel.
	Session vision.SessionHandle

	// StartStreamErr, if non-nil, is returned as the error from StartStream.
	StartStreamErr error

	// StartStreamCalls records every call to StartStream.
	StartStreamCalls []StartStreamCall
}

// Compile-time interface check.
var _ vision.Source = (*Source)(nil)

// StartStream records the call and returns Session, StartStreamErr.
func (s *Source) StartStream(ctx context.Context, cfg vision.StreamConfig) (vision.SessionHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartStreamCalls = append(s.StartStreamCalls, StartStreamCall{Ctx: ctx, Cfg: cfg})
	if s.StartStreamErr != nil {
		return nil, s.StartStreamErr
	}
	if s.Session != nil {
		return s.Session, nil
	}
	return &Session{ObservationsCh: make(chan vision.Observation, 16)}, nil
}

// Reset clears all recorded calls. Thread-safe.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartStreamCalls = nil
}

// Session is a mock implementation of vision.SessionHandle. Callers own
// ObservationsCh and are responsible for sending to and closing it.
type Session struct {
	mu sync.Mutex

	// ObservationsCh is the channel returned by Observations().
	ObservationsCh chan vision.Observation

	// CloseErr, if non-nil, is returned by Close.
	CloseErr error

	// CloseCallCount is the number of times Close was called.
	CloseCallCount int
}

// Compile-time interface check.
var _ vision.SessionHandle = (*Session)(nil)

// Observations returns ObservationsCh.
func (s *Session) Observations() <-chan vision.Observation { return s.ObservationsCh }

// Close records the call and returns CloseErr.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CloseCallCount++
	return s.CloseErr
}
