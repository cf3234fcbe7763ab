package interview

// EventKind is the closed set of inputs the session controller reacts to.
// Every state transition in the controller is triggered by exactly one of
// these, which keeps the transition logic exhaustively checkable in one
// switch and unit-testable without any transport attached.
type EventKind int

const (
	// EventStartSession begins a new session from setup parameters.
	EventStartSession EventKind = iota
	// EventRecordEmotion folds a facial-expression snapshot into the session.
	EventRecordEmotion
	// EventRecordBehavior folds a body-language snapshot into the session.
	EventRecordBehavior
	// EventRecordDetections folds one frame of object detections into the
	// session and advances the proctoring counters.
	EventRecordDetections
	// EventRecordPresence feeds face and person visibility to the proctor.
	EventRecordPresence
	// EventSubmit submits the candidate's answer and requests the next
	// interviewer turn.
	EventSubmit
	// EventInterviewerReply delivers generated interviewer text back into
	// the session once a language-model call finishes.
	EventInterviewerReply
	// EventTimerTick advances the countdown by one second.
	EventTimerTick
	// EventResponseTimeout fires when the candidate has gone silent long
	// enough for the no-response decay penalty.
	EventResponseTimeout
	// EventWarningClear lifts the advisory pause after a warning.
	EventWarningClear
	// EventComplete ends the session normally.
	EventComplete
	// EventTerminate ends the session with a proctoring reason.
	EventTerminate
	// EventReset discards all transient state and returns to setup.
	EventReset
)

// String returns the event name for logs.
func (k EventKind) String() string {
	switch k {
	case EventStartSession:
		return "start_session"
	case EventRecordEmotion:
		return "record_emotion"
	case EventRecordBehavior:
		return "record_behavior"
	case EventRecordDetections:
		return "record_detections"
	case EventRecordPresence:
		return "record_presence"
	case EventSubmit:
		return "submit"
	case EventInterviewerReply:
		return "interviewer_reply"
	case EventTimerTick:
		return "timer_tick"
	case EventResponseTimeout:
		return "response_timeout"
	case EventWarningClear:
		return "warning_clear"
	case EventComplete:
		return "complete"
	case EventTerminate:
		return "terminate"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}
