package store

import "time"

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

// Lifecycle states of a session.
const (
	// StatusActive means the interview is running and accepting signals.
	StatusActive SessionStatus = "active"

	// StatusCompleted means the interview ended normally (timer expiry or
	// explicit completion) and is eligible for analysis.
	StatusCompleted SessionStatus = "completed"

	// StatusTerminated means proctoring ended the interview early.
	// TerminationReason records why.
	StatusTerminated SessionStatus = "terminated"
)

// IsValid reports whether s is a known session status.
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusTerminated:
		return true
	}
	return false
}

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	// RoleHR is the AI interviewer.
	RoleHR MessageRole = "hr"

	// RoleCandidate is the human being interviewed.
	RoleCandidate MessageRole = "candidate"

	// RoleSystem marks proctoring warnings and termination notices.
	RoleSystem MessageRole = "system"
)

// ChatMessage is one turn of the interview conversation.
type ChatMessage struct {
	// ID is a unique identifier for this message.
	ID string `json:"messageId"`

	// Role identifies the author.
	Role MessageRole `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp is when the message was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// EmotionScores holds per-emotion probabilities from one facial-expression
// classification, each in [0, 1].
type EmotionScores struct {
	Neutral   float64 `json:"neutral"`
	Happy     float64 `json:"happy"`
	Surprised float64 `json:"surprised"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Fearful   float64 `json:"fearful"`
	Disgusted float64 `json:"disgusted"`
}

// EmotionSnapshot is one facial-expression reading from the candidate camera.
type EmotionSnapshot struct {
	// Dominant is the highest-scoring emotion label
	// (neutral, happy, surprised, sad, angry, fearful, disgusted).
	Dominant string `json:"dominant"`

	// Confidence is the classifier's confidence in Dominant, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Scores holds the full per-emotion probability breakdown.
	Scores EmotionScores `json:"scores"`

	// Timestamp is when the reading was taken.
	Timestamp time.Time `json:"timestamp"`
}

// Posture labels for [BehaviorSnapshot.Posture].
const (
	PostureGood = "good"
	PostureBad  = "bad"
)

// BehaviorSnapshot is one body-language reading from the candidate camera:
// instantaneous flags plus cumulative event counters maintained by the tracker.
type BehaviorSnapshot struct {
	// EyeContact reports whether the candidate was facing the camera.
	EyeContact bool `json:"eyeContact"`

	// HandPresence reports whether the candidate's hands were visible in frame.
	HandPresence bool `json:"handPresence"`

	// Posture is PostureGood or PostureBad.
	Posture string `json:"posture"`

	// HandEvents counts hand-in-frame intrusion events so far.
	HandEvents int `json:"handDetectionCounter"`

	// HandSeconds is the cumulative duration of hand intrusions, in seconds.
	HandSeconds float64 `json:"handDetectionDuration"`

	// NotFacingEvents counts breaks in eye contact so far.
	NotFacingEvents int `json:"notFacingCounter"`

	// NotFacingSeconds is the cumulative time spent looking away, in seconds.
	NotFacingSeconds float64 `json:"notFacingDuration"`

	// BadPostureEvents counts poor-posture events so far.
	BadPostureEvents int `json:"badPostureDetectionCounter"`

	// BadPostureSeconds is the cumulative poor-posture duration, in seconds.
	BadPostureSeconds float64 `json:"badPostureDuration"`

	// Timestamp is when the reading was taken.
	Timestamp time.Time `json:"timestamp"`
}

// Detection is one object-detection hit from the proctoring camera.
type Detection struct {
	// Class is the detector's label for the object (person, cell phone, …).
	Class string `json:"class"`

	// Score is the detector's confidence, in [0, 1].
	Score float64 `json:"score"`

	// BBox is the bounding box as [x, y, width, height], normalized to [0, 1].
	BBox [4]float64 `json:"bbox"`

	// Timestamp is when the object was detected.
	Timestamp time.Time `json:"timestamp"`
}

// Warning is a proctoring warning issued during a session.
type Warning struct {
	// Kind categorizes the violation (face, phone, object, absence).
	Kind string `json:"kind"`

	// Message is the human-readable warning text shown to the candidate.
	Message string `json:"message"`

	// IssuedAt is when the warning was issued.
	IssuedAt time.Time `json:"issuedAt"`
}

// LiveScores is the trio of rolling performance scores updated from camera
// signals while the interview runs. Each score stays in [0, 100].
type LiveScores struct {
	// Confidence reflects emotional signals, posture, and eye contact.
	Confidence float64 `json:"confidence"`

	// Engagement reflects hand positioning and expressiveness.
	Engagement float64 `json:"engagement"`

	// Attentiveness reflects eye contact and responsiveness.
	Attentiveness float64 `json:"attentiveness"`
}

// Session is a complete record of one mock interview.
type Session struct {
	// ID uniquely identifies the session (a UUID).
	ID string `json:"sessionId"`

	// CandidateName is the interviewee's display name.
	CandidateName string `json:"candidateName"`

	// JobTitle is the position being interviewed for.
	JobTitle string `json:"jobTitle"`

	// DurationMinutes is the configured interview length.
	DurationMinutes int `json:"duration"`

	// Backend names the LLM backend conducting the interview
	// (gemini, chatgpt, grok).
	Backend string `json:"aiBackend"`

	// Status is the session lifecycle state.
	Status SessionStatus `json:"status"`

	// StartedAt is when the interview began.
	StartedAt time.Time `json:"startTime"`

	// EndedAt is when the interview ended. Zero while the session is active.
	EndedAt time.Time `json:"endTime,omitzero"`

	// TerminationReason explains why proctoring ended the session.
	// Empty unless Status is StatusTerminated.
	TerminationReason string `json:"terminationReason,omitempty"`

	// QuestionCount is the number of questions the interviewer has asked.
	QuestionCount int `json:"questionCount"`

	// Scores is the final state of the live score trio.
	Scores LiveScores `json:"scores"`

	// Messages is the chronological chat transcript.
	Messages []ChatMessage `json:"messages"`

	// Emotions is the chronological emotion signal history.
	Emotions []EmotionSnapshot `json:"emotions"`

	// Behavior is the chronological body-language signal history.
	Behavior []BehaviorSnapshot `json:"behaviorAnalysis"`

	// Detections is the chronological object-detection history.
	Detections []Detection `json:"objectDetections"`

	// Warnings lists proctoring warnings issued during the session.
	Warnings []Warning `json:"warnings"`
}

// Recommendation is the hiring recommendation tier of an [Analysis].
type Recommendation string

const (
	RecommendStrong   Recommendation = "Strong"
	RecommendModerate Recommendation = "Moderate"
	RecommendLow      Recommendation = "Low"
)

// EmotionBreakdown is the percentage of signal samples in which each emotion
// was dominant. Values are in [0, 100] and sum to 100 when any samples exist.
type EmotionBreakdown struct {
	Neutral   float64 `json:"neutral"`
	Happy     float64 `json:"happy"`
	Surprised float64 `json:"surprised"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Fearful   float64 `json:"fearful"`
	Disgusted float64 `json:"disgusted"`
}

// BehaviorBreakdown summarizes body-language quality over a session.
type BehaviorBreakdown struct {
	// EyeContactQuality is Excellent, Good, Poor, or Unknown.
	EyeContactQuality string `json:"eyeContactQuality"`

	// BreaksInEyeContact is the total count of eye-contact breaks.
	BreaksInEyeContact int `json:"breaksInEyeContact"`

	// TotalTimeLookingAway is the cumulative look-away time, in seconds.
	TotalTimeLookingAway float64 `json:"totalTimeLookingAway"`

	// HandPositioning is Optimal or Needs Improvement.
	HandPositioning string `json:"handPositioning"`

	// PostureQuality is Professional or Needs Improvement.
	PostureQuality string `json:"postureQuality"`

	// PoorPostureEvents is the total count of poor-posture events.
	PoorPostureEvents int `json:"poorPostureEvents"`

	// PoorPostureDuration is the cumulative poor-posture time, in seconds.
	PoorPostureDuration float64 `json:"poorPostureDuration"`
}

// CommunicationBreakdown summarizes the candidate's verbal responses.
type CommunicationBreakdown struct {
	// ResponseTime is the average minutes per candidate response.
	ResponseTime float64 `json:"responseTime"`

	// MessageCount is the number of candidate responses.
	MessageCount int `json:"messageCount"`

	// AverageResponseLength is the mean response length in characters.
	AverageResponseLength float64 `json:"averageResponseLength"`

	// ClarityScore estimates response completeness, in [0, 100].
	ClarityScore float64 `json:"clarityScore"`
}

// Analysis is the post-interview performance report for one session.
type Analysis struct {
	// SessionID identifies the session this report was generated from.
	SessionID string `json:"sessionId"`

	// OverallScore is the weighted composite score, in [0, 100].
	OverallScore int `json:"overallScore"`

	// CommunicationScore rates verbal responses, in [0, 100].
	CommunicationScore int `json:"communicationScore"`

	// ConfidenceScore rates emotional signals, in [0, 100].
	ConfidenceScore int `json:"confidenceScore"`

	// BodyLanguageScore rates physical presence, in [0, 100].
	BodyLanguageScore int `json:"bodyLanguageScore"`

	// EmotionalStabilityScore rates composure, in [0, 100].
	EmotionalStabilityScore int `json:"emotionalStabilityScore"`

	// Strengths lists observed strengths. Never empty.
	Strengths []string `json:"strengths"`

	// Weaknesses lists observed weaknesses. Never empty.
	Weaknesses []string `json:"weaknesses"`

	// CoachingTips lists actionable improvement advice. Never empty.
	CoachingTips []string `json:"coachingTips"`

	// HiringRecommendation is the overall tier derived from OverallScore.
	HiringRecommendation Recommendation `json:"hiringRecommendation"`

	// ProcessingTime is how long report generation took, in milliseconds.
	ProcessingTime int `json:"processingTime"`

	// Emotion is the per-emotion dominance breakdown.
	Emotion EmotionBreakdown `json:"emotionAnalysis"`

	// Behavior is the body-language summary.
	Behavior BehaviorBreakdown `json:"behaviorAnalysis"`

	// Communication is the verbal-response summary.
	Communication CommunicationBreakdown `json:"communicationAnalysis"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generatedAt"`
}
