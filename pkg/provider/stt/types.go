package stt

import "time"

// Result is one speech-recognition hypothesis. Both interim and final
// results use this type.
type Result struct {
	// Transcript is the recognised speech content.
	Transcript string

	// IsFinal indicates whether this is a final (authoritative) or interim
	// (revisable) result.
	IsFinal bool

	// Confidence is the recogniser's confidence score (0.0–1.0). May be zero
	// for interim results; recognisers often only score finals.
	Confidence float64

	// Timestamp is when the result was produced.
	Timestamp time.Time
}
