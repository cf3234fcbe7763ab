// Package tts defines the Provider interface for speech output backends.
//
// The interviewer's questions are spoken aloud on the candidate's machine, so
// synthesis happens wherever the playback device lives. The server side treats
// speech output as a blocking operation: Speak returns once the utterance has
// finished playing, which lets the turn orchestrator keep the microphone muted
// for exactly as long as the interviewer is talking.
//
// Implementations must be safe for concurrent use, though callers normally
// serialize utterances through a queue so only one plays at a time.
package tts

import "context"

// Provider is the abstraction over any speech output backend.
type Provider interface {
	// Speak synthesizes and plays req.Text, blocking until playback has
	// completed or ctx is cancelled. If req.VoiceName is empty, the
	// implementation picks a voice (see ChooseVoice for the standard policy).
	//
	// Returns ctx.Err() if the context is cancelled mid-utterance; any other
	// non-nil error means the utterance could not be played.
	Speak(ctx context.Context, req Request) error

	// ListVoices returns the voices currently available for synthesis. The
	// catalogue may change between calls as the underlying engine loads
	// voices asynchronously.
	ListVoices(ctx context.Context) ([]Voice, error)
}
