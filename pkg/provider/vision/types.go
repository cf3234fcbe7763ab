package vision

import "github.com/TejasKumarBoddu1/ava/pkg/store"

// ObservationKind discriminates the payload carried by an Observation.
type ObservationKind string

const (
	// KindEmotion carries a facial expression snapshot.
	KindEmotion ObservationKind = "emotion"
	// KindBehavior carries an eye contact, hand, and posture snapshot.
	KindBehavior ObservationKind = "behavior"
	// KindDetections carries one frame of ranked object detections.
	KindDetections ObservationKind = "detections"
	// KindPresence carries face and person visibility flags.
	KindPresence ObservationKind = "presence"
)

// Presence reports whether the trackers can currently see the candidate.
type Presence struct {
	// FaceVisible is false when the face tracker has lost the face.
	FaceVisible bool `json:"faceVisible"`

	// PersonPresent is false when no person is detected in frame.
	PersonPresent bool `json:"personPresent"`
}

// Observation is a single camera-derived signal. The payload field selected
// by Kind is set; the others are zero.
type Observation struct {
	Kind       ObservationKind
	Emotion    *store.EmotionSnapshot
	Behavior   *store.BehaviorSnapshot
	Detections []store.Detection
	Presence   *Presence
}
