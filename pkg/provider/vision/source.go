// Package vision defines the Source interface for camera-derived signals.
//
// Face expression, posture, and object detection run in the candidate's
// browser on the raw video; only their compact results cross the wire. A
// Source is the server-side stream of those results. The session controller
// consumes observations to drive live scoring and integrity monitoring, so a
// Source implementation is the seam between transport and interview logic.
//
// Implementations must be safe for concurrent use.
package vision

import "context"

// StreamConfig controls an observation stream.
type StreamConfig struct {
	// SampleInterval hints how often the client should report emotion and
	// behavior snapshots, in milliseconds. Zero means client default.
	SampleInterval int
}

// SessionHandle is a live observation stream.
type SessionHandle interface {
	// Observations returns the channel on which observations arrive. The
	// channel is closed when the stream ends, either because the client
	// disconnected or Close was called.
	Observations() <-chan Observation

	// Close terminates the stream and releases its resources. Safe to call
	// more than once.
	Close() error
}

// Source is the abstraction over any observation transport.
type Source interface {
	// StartStream opens a new observation stream. The stream is tied to ctx
	// and closes when ctx is cancelled.
	StartStream(ctx context.Context, cfg StreamConfig) (SessionHandle, error)
}
