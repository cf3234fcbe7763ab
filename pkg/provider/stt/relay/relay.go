// Package relay implements [stt.Provider] for recognition results that arrive
// from a remote client rather than from local audio processing.
//
// The websocket handler pushes browser-recognised hypotheses into the relay
// with [Session.Push]; the speech orchestrator consumes them through the
// standard [stt.SessionHandle] channel. This keeps the orchestrator unaware
// of the transport.
package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/stt"
)

// Compile-time interface checks.
var (
	_ stt.Provider      = (*Provider)(nil)
	_ stt.SessionHandle = (*Session)(nil)
)

// Provider creates push-fed recognition sessions.
// The zero value is ready to use.
type Provider struct{}

// New returns a relay Provider.
func New() *Provider { return &Provider{} }

// StartStream implements [stt.Provider]. The configuration is recorded on the
// session so the transport layer can forward it to the recognising client.
func (p *Provider) StartStream(ctx context.Context, cfg stt.StreamConfig) (stt.SessionHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("stt relay: start stream: %w", err)
	}
	s := &Session{
		cfg:     cfg,
		results: make(chan stt.Result, 64),
	}
	// Tie session lifetime to the context so an abandoned stream cannot
	// leak its consumers.
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	s.stop = stop
	return s, nil
}

// Session is a push-fed recognition session. The transport layer calls
// [Session.Push] for every hypothesis relayed by the client; consumers read
// from [Session.Results]. All methods are safe for concurrent use.
type Session struct {
	cfg     stt.StreamConfig
	results chan stt.Result
	stop    func() bool

	mu     sync.Mutex
	closed bool
}

// Config returns the recognition settings requested for this session.
func (s *Session) Config() stt.StreamConfig { return s.cfg }

// Push delivers one relayed hypothesis to the session's consumers.
// Returns an error after Close. A full consumer is never blocked on: when the
// buffer is saturated the oldest pending result is dropped, favouring recency
// the way live captioning does.
func (s *Session) Push(r stt.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("stt relay: push on closed session")
	}
	for {
		select {
		case s.results <- r:
			return nil
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}

// Results implements [stt.SessionHandle].
func (s *Session) Results() <-chan stt.Result { return s.results }

// Close implements [stt.SessionHandle].
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.stop != nil {
		s.stop()
	}
	close(s.results)
	return nil
}
