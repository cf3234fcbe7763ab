// Package relay implements vision.Source for observations pushed over an
// existing transport, typically the session websocket. The transport layer
// decodes incoming frames and calls Push; consumers read from Observations.
package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/vision"
)

// observationBuffer is the channel capacity per stream. Observation rates are
// low (a few per second) so this absorbs brief consumer stalls.
const observationBuffer = 64

// Source creates push-fed observation streams. The zero value is ready to use.
type Source struct{}

// Compile-time interface check.
var _ vision.Source = (*Source)(nil)

// New returns a ready-to-use Source.
func New() *Source { return &Source{} }

// StartStream opens a new push-fed stream tied to ctx. The returned handle is
// a *Session; the transport keeps the concrete type to call Push.
func (s *Source) StartStream(ctx context.Context, cfg vision.StreamConfig) (vision.SessionHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess := &Session{
		cfg:          cfg,
		observations: make(chan vision.Observation, observationBuffer),
	}
	sess.stop = context.AfterFunc(ctx, func() { _ = sess.Close() })
	return sess, nil
}

// Session is a single push-fed observation stream.
type Session struct {
	cfg vision.StreamConfig

	mu           sync.Mutex
	closed       bool
	observations chan vision.Observation
	stop         func() bool
}

// Compile-time interface check.
var _ vision.SessionHandle = (*Session)(nil)

// Config returns the StreamConfig the session was started with.
func (s *Session) Config() vision.StreamConfig { return s.cfg }

// Push delivers an observation to the consumer. When the buffer is full the
// oldest pending observation is dropped so that live scoring always works
// from recent signals. Returns an error after Close.
func (s *Session) Push(obs vision.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("vision relay: push on closed session")
	}
	for {
		select {
		case s.observations <- obs:
			return nil
		default:
		}
		select {
		case <-s.observations:
		default:
		}
	}
}

// Observations returns the channel on which pushed observations arrive.
func (s *Session) Observations() <-chan vision.Observation { return s.observations }

// Close ends the stream, closing the observations channel. Safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.observations)
	if s.stop != nil {
		s.stop()
	}
	return nil
}
