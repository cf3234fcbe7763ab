// Package mock provides a test double for the tts.Provider interface.
//
// Use Provider to verify which utterances were spoken and in what order,
// without any real playback. Speak returns immediately unless SpeakDelay or
// SpeakErr is configured.
//
// Example:
//
//	p := &mock.Provider{ListVoicesResult: []tts.Voice{{Name: "Alice", Lang: "en-US"}}}
//	_ = p.Speak(ctx, tts.Request{Text: "Hello"})
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
)

// SpeakCall records a single invocation of Speak.
type SpeakCall struct {
	// Ctx is the context passed to Speak.
	Ctx context.Context
	// Req is the Request passed to Speak.
	Req tts.Request
}

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// SpeakErr, if non-nil, is returned as the error from Speak.
	SpeakErr error

	// SpeakDelay, if positive, makes Speak block for this long (or until ctx
	// is cancelled) before returning, simulating playback time.
	SpeakDelay time.Duration

	// ListVoicesResult is returned by ListVoices.
	ListVoicesResult []tts.Voice

	// ListVoicesErr, if non-nil, is returned as the error from ListVoices.
	ListVoicesErr error

	// SpeakCalls records every call to Speak in order.
	SpeakCalls []SpeakCall

	// ListVoicesCallCount is the number of times ListVoices was called.
	ListVoicesCallCount int
}

// Ensure Provider implements tts.Provider at compile time.
var _ tts.Provider = (*Provider)(nil)

// Speak records the call, waits SpeakDelay if set, and returns SpeakErr.
func (p *Provider) Speak(ctx context.Context, req tts.Request) error {
	p.mu.Lock()
	p.SpeakCalls = append(p.SpeakCalls, SpeakCall{Ctx: ctx, Req: req})
	delay := p.SpeakDelay
	err := p.SpeakErr
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// ListVoices records the call and returns ListVoicesResult, ListVoicesErr.
func (p *Provider) ListVoices(_ context.Context) ([]tts.Voice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListVoicesCallCount++
	if p.ListVoicesErr != nil {
		return nil, p.ListVoicesErr
	}
	return p.ListVoicesResult, nil
}

// Spoken returns the texts of all recorded Speak calls in order.
func (p *Provider) Spoken() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.SpeakCalls))
	for i, c := range p.SpeakCalls {
		out[i] = c.Req.Text
	}
	return out
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SpeakCalls = nil
	p.ListVoicesCallCount = 0
}
