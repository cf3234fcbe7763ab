package tts

// Voice describes a synthesis voice offered by a backend.
type Voice struct {
	// Name is the backend-specific voice name, e.g. "Google UK English Female".
	Name string

	// Lang is the BCP 47 language tag of the voice, e.g. "en-GB".
	Lang string

	// Default reports whether the backend considers this its default voice.
	Default bool
}

// Request describes a single utterance to synthesize and play.
type Request struct {
	// Text is the content to speak. Must be non-empty.
	Text string

	// VoiceName selects a voice by exact name. Empty means the
	// implementation chooses.
	VoiceName string

	// Rate adjusts speaking rate (0.5–2.0, 0 means the backend default).
	Rate float64

	// Pitch adjusts pitch (0.0–2.0, 0 means the backend default).
	Pitch float64

	// Volume adjusts loudness (0.0–1.0, 0 means the backend default).
	Volume float64
}
