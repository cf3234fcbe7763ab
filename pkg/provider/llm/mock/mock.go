// Package mock provides a configurable in-memory test double for
// [llm.Provider].
//
// The mock records every method call for assertion in tests and exposes
// exported fields that control what it returns. It is safe for concurrent use
// via an internal [sync.Mutex].
//
// Typical usage:
//
//	p := &mock.Provider{
//		CompleteResponse: &llm.CompletionResponse{Content: "Tell me about yourself."},
//	}
//
//	// inject p into the system under test …
//
//	if got := p.CallCount("Complete"); got != 1 {
//	    t.Errorf("expected 1 Complete call, got %d", got)
//	}
package mock

import (
	"context"
	"sync"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm"
)

// Compile-time interface check.
var _ llm.Provider = (*Provider)(nil)

// Call records the name and arguments of a single method invocation.
type Call struct {
	// Method is the name of the interface method that was called.
	Method string

	// Args holds the non-context arguments passed to the method, in order.
	Args []any
}

// Provider is a configurable test double for [llm.Provider].
// All exported *Err fields default to nil (success).
type Provider struct {
	mu sync.Mutex

	// calls records every method invocation in order.
	calls []Call

	// StreamChunks are emitted in order by [Provider.StreamCompletion].
	StreamChunks []llm.Chunk

	// StreamErr is returned by [Provider.StreamCompletion] when non-nil.
	StreamErr error

	// CompleteResponse is returned by [Provider.Complete].
	// When nil, Complete returns an empty response.
	CompleteResponse *llm.CompletionResponse

	// CompleteErr is returned by [Provider.Complete] when non-nil.
	CompleteErr error

	// CompleteResponses, when non-empty, overrides CompleteResponse: each
	// Complete call consumes the next entry, and the last entry repeats once
	// exhausted. Useful for scripting multi-turn interviews.
	CompleteResponses []*llm.CompletionResponse

	// completeCalls counts Complete invocations for CompleteResponses.
	completeCalls int

	// CountTokensResult is returned by [Provider.CountTokens].
	CountTokensResult int

	// CountTokensErr is returned by [Provider.CountTokens] when non-nil.
	CountTokensErr error

	// CapabilitiesResult is returned by [Provider.Capabilities].
	CapabilitiesResult llm.ModelCapabilities
}

// Calls returns a copy of all recorded method invocations.
func (m *Provider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (m *Provider) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// record appends a call entry under the mutex.
func (m *Provider) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

// StreamCompletion implements [llm.Provider]. It emits StreamChunks on the
// returned channel and closes it.
func (m *Provider) StreamCompletion(ctx context.Context, req llm.CompletionRequest) (<-chan llm.Chunk, error) {
	m.record("StreamCompletion", req)
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}

	m.mu.Lock()
	chunks := make([]llm.Chunk, len(m.StreamChunks))
	copy(chunks, m.StreamChunks)
	m.mu.Unlock()

	ch := make(chan llm.Chunk, len(chunks))
	go func() {
		defer close(ch)
		for _, c := range chunks {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Complete implements [llm.Provider].
func (m *Provider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.record("Complete", req)
	if m.CompleteErr != nil {
		return nil, m.CompleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.CompleteResponses) > 0 {
		idx := m.completeCalls
		if idx >= len(m.CompleteResponses) {
			idx = len(m.CompleteResponses) - 1
		}
		m.completeCalls++
		return m.CompleteResponses[idx], nil
	}
	if m.CompleteResponse != nil {
		return m.CompleteResponse, nil
	}
	return &llm.CompletionResponse{}, nil
}

// CountTokens implements [llm.Provider].
func (m *Provider) CountTokens(messages []llm.Message) (int, error) {
	m.record("CountTokens", messages)
	if m.CountTokensErr != nil {
		return 0, m.CountTokensErr
	}
	return m.CountTokensResult, nil
}

// Capabilities implements [llm.Provider].
func (m *Provider) Capabilities() llm.ModelCapabilities {
	m.record("Capabilities")
	return m.CapabilitiesResult
}
