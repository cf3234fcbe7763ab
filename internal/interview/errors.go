package interview

import "errors"

var (
	// ErrNoActiveSession is returned for operations that need a running
	// session when none exists.
	ErrNoActiveSession = errors.New("interview: no active session")

	// ErrSessionActive is returned when starting a session while one is
	// already running.
	ErrSessionActive = errors.New("interview: a session is already active")

	// ErrProcessing is returned when a submission arrives while a previous
	// one is still waiting on the language model.
	ErrProcessing = errors.New("interview: previous submission still processing")

	// ErrEmptyResponse is returned when a submission carries no usable text.
	ErrEmptyResponse = errors.New("interview: empty response")
)

// SetupError reports invalid session setup parameters.
type SetupError struct {
	Field  string
	Reason string
}

func (e *SetupError) Error() string {
	return "interview: invalid setup: " + e.Field + ": " + e.Reason
}
