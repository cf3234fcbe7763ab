package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Violation categories tracked by the Proctor.
const (
	ViolationFace   = "face_not_visible"
	ViolationPhone  = "phone_detected"
	ViolationObject = "object_violation"
	ViolationPerson = "person_not_detected"
)

// Strike limits per category. Person absence has no limit: the first
// occurrence terminates.
const (
	faceStrikeLimit   = 2
	phoneStrikeLimit  = 2
	objectStrikeLimit = 3
)

// objectScoreFloor is the minimum detection confidence for an extraneous
// object to count against the candidate.
const objectScoreFloor = 0.5

// warningPause is how long the interview pauses after a warning is issued.
// The microphone is not force-muted; the pause is advisory.
const warningPause = 5 * time.Second

// phoneClasses are detector labels treated as a phone sighting.
var phoneClasses = map[string]struct{}{
	"cell phone":   {},
	"mobile phone": {},
	"phone":        {},
	"smartphone":   {},
	"telephone":    {},
}

// benignClasses are detector labels that never count as extraneous objects.
var benignClasses = map[string]struct{}{
	"person": {},
	"human":  {},
	"face":   {},
	"head":   {},
}

// Notice is a warning the controller should surface: a system message in the
// transcript plus a spoken announcement. Final marks the repeat wording used
// once a category has already warned earlier in the session.
type Notice struct {
	Kind    string
	Message string
	Final   bool
}

// Outcome is the result of feeding one signal to the Proctor. Zero value
// means nothing happened. When Terminate is set, Reason carries the
// user-facing explanation; any Notices issued in the same signal still apply.
type Outcome struct {
	Notices   []Notice
	Terminate bool
	Reason    string
}

func (o Outcome) merge(other Outcome) Outcome {
	o.Notices = append(o.Notices, other.Notices...)
	if other.Terminate && !o.Terminate {
		o.Terminate = true
		o.Reason = other.Reason
	}
	return o
}

// ViolationState is a read-only view of the Proctor's counters, exposed for
// tests and live UI.
type ViolationState struct {
	FaceCount    int
	PhoneCount   int
	ObjectCount  int
	PersonAbsent bool
	FaceWarned   bool
	PhoneWarned  bool
}

// Proctor tracks compliance violations across four independent categories.
// Face and phone follow a two-strike policy, extraneous objects three
// strikes, person absence terminates immediately. A category's counter
// resets when its condition clears, but the warned flag for face and phone
// is sticky for the whole session, so after a reset the repeat wording is
// used and escalation is not re-armed from scratch.
//
// Proctor is not safe for concurrent use; the session controller owns it.
type Proctor struct {
	state ViolationState
}

// NewProctor returns a Proctor with all categories clear.
func NewProctor() *Proctor {
	return &Proctor{}
}

// State returns the current violation counters.
func (p *Proctor) State() ViolationState { return p.state }

// Reset clears all counters and the sticky warned flags. Only session reset
// does this; completion leaves the state in place.
func (p *Proctor) Reset() {
	p.state = ViolationState{}
}

// ObserveDetections feeds one frame of object detections. Phone and
// extraneous-object counters advance when their condition is present in the
// frame and reset to zero when it is absent.
func (p *Proctor) ObserveDetections(frame []store.Detection) Outcome {
	var phoneSeen bool
	var objectClass string
	for _, d := range frame {
		class := strings.ToLower(strings.TrimSpace(d.Class))
		if _, ok := phoneClasses[class]; ok {
			phoneSeen = true
			continue
		}
		if _, ok := benignClasses[class]; ok {
			continue
		}
		if d.Score > objectScoreFloor && objectClass == "" {
			objectClass = class
		}
	}

	var out Outcome
	if phoneSeen {
		out = out.merge(p.strikePhone())
	} else {
		p.state.PhoneCount = 0
	}
	if objectClass != "" {
		out = out.merge(p.strikeObject(objectClass))
	} else {
		p.state.ObjectCount = 0
	}
	return out
}

// ObserveFace feeds the face tracker's visibility flag.
func (p *Proctor) ObserveFace(visible bool) Outcome {
	if visible {
		p.state.FaceCount = 0
		return Outcome{}
	}
	p.state.FaceCount++
	if p.state.FaceCount >= faceStrikeLimit {
		return Outcome{
			Terminate: true,
			Reason:    fmt.Sprintf("Face not visible %d times - Automatic termination", faceStrikeLimit),
		}
	}
	final := p.state.FaceWarned
	p.state.FaceWarned = true
	msg := "Warning: Your face is not visible. Please stay in front of the camera."
	if final {
		msg = "Final warning: Your face is not visible. The interview will be terminated if this happens again."
	}
	return Outcome{Notices: []Notice{{Kind: ViolationFace, Message: msg, Final: final}}}
}

// ObservePerson feeds the person-presence flag. Absence is zero-tolerance.
func (p *Proctor) ObservePerson(present bool) Outcome {
	if present {
		p.state.PersonAbsent = false
		return Outcome{}
	}
	p.state.PersonAbsent = true
	return Outcome{
		Terminate: true,
		Reason:    "Person not detected - Automatic termination",
	}
}

func (p *Proctor) strikePhone() Outcome {
	p.state.PhoneCount++
	if p.state.PhoneCount >= phoneStrikeLimit {
		return Outcome{
			Terminate: true,
			Reason:    fmt.Sprintf("Phone detected %d times - Automatic termination", phoneStrikeLimit),
		}
	}
	final := p.state.PhoneWarned
	p.state.PhoneWarned = true
	msg := "Warning: Phone detected. Please put your phone away."
	if final {
		msg = "Final warning: Phone detected. The interview will be terminated if this happens again."
	}
	return Outcome{Notices: []Notice{{Kind: ViolationPhone, Message: msg, Final: final}}}
}

func (p *Proctor) strikeObject(class string) Outcome {
	p.state.ObjectCount++
	if p.state.ObjectCount >= objectStrikeLimit {
		return Outcome{
			Terminate: true,
			Reason:    fmt.Sprintf("Prohibited object detected %d times - Automatic termination", objectStrikeLimit),
		}
	}
	msg := fmt.Sprintf("Warning: Prohibited object detected (%s). Please remove it from view.", class)
	return Outcome{Notices: []Notice{{Kind: ViolationObject, Message: msg}}}
}
