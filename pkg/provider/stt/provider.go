// Package stt defines the Provider interface for speech-recognition sources.
//
// Ava does not transcribe audio itself: recognition runs in the candidate's
// browser and the resulting interim/final hypotheses are relayed to the
// server. The Provider abstraction keeps the speech orchestrator independent
// of where results actually come from — a websocket relay in production
// (pkg/provider/stt/relay), a scripted double in tests (pkg/provider/stt/mock),
// or a native recognizer should one ever be wired in.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// StreamConfig describes the recognition behaviour requested for a session.
// Relay-style providers forward these settings to the recognising client.
type StreamConfig struct {
	// Language is the BCP-47 language tag for recognition (e.g., "en-US").
	// An empty string lets the recogniser pick its default.
	Language string

	// InterimResults requests low-latency partial hypotheses in addition to
	// final ones.
	InterimResults bool

	// MaxAlternatives caps how many alternative hypotheses a result may carry.
	// Zero means recogniser default (usually 1).
	MaxAlternatives int
}

// SessionHandle represents an open recognition session. It is an interface so
// that test code can provide mock implementations without a live client
// connection.
//
// Callers must call Close when the session is no longer needed.
// All methods must be safe for concurrent use.
type SessionHandle interface {
	// Results returns a read-only channel emitting recognition hypotheses in
	// arrival order. Interim results (IsFinal false) may be revised by later
	// results; final results are authoritative. The channel is closed when
	// the session ends.
	Results() <-chan Result

	// Close terminates the session and releases all associated resources.
	// After Close returns, the Results channel is closed. Calling Close more
	// than once is safe and returns nil.
	Close() error
}

// Provider is the abstraction over any speech-recognition source.
type Provider interface {
	// StartStream opens a new recognition session. The returned SessionHandle
	// is ready to emit results immediately.
	//
	// Returns an error if the session cannot be established or ctx is already
	// cancelled. The caller owns the SessionHandle and must call Close when
	// done.
	StartStream(ctx context.Context, cfg StreamConfig) (SessionHandle, error)
}
