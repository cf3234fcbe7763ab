package interview

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Export bundles a session with its analysis into a downloadable artifact.
type Export struct {
	Session    store.Session  `json:"session"`
	Analysis   store.Analysis `json:"analysis"`
	ExportDate time.Time      `json:"exportDate"`
}

// ExportFilename returns the download filename for a session's analysis.
func ExportFilename(sessionID string) string {
	return fmt.Sprintf("interview-analysis-%s.json", sessionID)
}

// MarshalExport renders the export artifact as indented JSON.
func MarshalExport(s store.Session, a store.Analysis) ([]byte, error) {
	data, err := json.MarshalIndent(Export{
		Session:    s,
		Analysis:   a,
		ExportDate: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("interview: marshal export: %w", err)
	}
	return data, nil
}

// DemoSession returns a synthetic completed session used when an analysis is
// requested but no real session exists. It skips the usual Created → Active
// lifecycle and exists purely so the report view has something to render.
func DemoSession() store.Session {
	now := time.Now()
	at := func(minutesAgo int) time.Time {
		return now.Add(-time.Duration(minutesAgo) * time.Minute)
	}
	return store.Session{
		ID:              "demo-session",
		CandidateName:   "Demo Candidate",
		JobTitle:        "Software Engineer",
		DurationMinutes: 15,
		Backend:         "gemini",
		Status:          store.StatusCompleted,
		StartedAt:       at(15),
		EndedAt:         now,
		Scores:          DefaultScores(),
		Messages: []store.ChatMessage{
			{
				ID:        "demo-1",
				Role:      store.RoleHR,
				Content:   "Tell me about yourself and your experience.",
				Timestamp: at(14),
			},
			{
				ID:        "demo-2",
				Role:      store.RoleCandidate,
				Content:   "I am a software engineer with 3 years of experience in React and Node.js. I enjoy solving complex problems and working in collaborative teams.",
				Timestamp: at(13),
			},
			{
				ID:        "demo-3",
				Role:      store.RoleHR,
				Content:   "What are your strengths and weaknesses?",
				Timestamp: at(12),
			},
			{
				ID:        "demo-4",
				Role:      store.RoleCandidate,
				Content:   "My strengths include strong problem-solving skills and attention to detail. I'm working on improving my public speaking skills.",
				Timestamp: at(11),
			},
		},
		Emotions: []store.EmotionSnapshot{
			{
				Dominant:   "neutral",
				Confidence: 0.85,
				Scores:     store.EmotionScores{Neutral: 0.85, Happy: 0.1, Sad: 0.05, Surprised: 0.1},
				Timestamp:  at(13),
			},
			{
				Dominant:   "happy",
				Confidence: 0.75,
				Scores:     store.EmotionScores{Happy: 0.75, Neutral: 0.1, Sad: 0.05, Surprised: 0.1},
				Timestamp:  at(11),
			},
		},
		Behavior: []store.BehaviorSnapshot{
			{
				EyeContact:        true,
				HandPresence:      true,
				Posture:           store.PostureGood,
				HandEvents:        5,
				HandSeconds:       3.2,
				NotFacingEvents:   8,
				NotFacingSeconds:  4.5,
				BadPostureEvents:  3,
				BadPostureSeconds: 2.1,
				Timestamp:         at(13),
			},
		},
		Detections: []store.Detection{
			{
				Class:     "person",
				Score:     0.92,
				BBox:      [4]float64{0.1, 0.1, 0.8, 0.8},
				Timestamp: at(13),
			},
		},
	}
}
