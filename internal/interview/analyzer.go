package interview

import (
	"math"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Sub-score weights for the overall composite.
const (
	weightCommunication = 0.30
	weightConfidence    = 0.25
	weightBodyLanguage  = 0.25
	weightStability     = 0.20
)

// Behavior quality labels used in the report.
const (
	eyeContactExcellent = "Excellent"
	eyeContactGood      = "Good"
	eyeContactPoor      = "Poor"
	eyeContactUnknown   = "Unknown"

	handsOptimal        = "Optimal"
	postureProfessional = "Professional"
	qualityNeedsWork    = "Needs Improvement"
)

// Analyze produces the post-interview report for a session. It is a pure
// function of the session record (plus the clock, for timing metadata): the
// same session always yields the same scores.
func Analyze(s store.Session) store.Analysis {
	started := time.Now()

	emotion := analyzeEmotions(s.Emotions)
	behavior := analyzeBehavior(s.Behavior)
	communication := analyzeCommunication(s)

	commScore := clamp(communication.ClarityScore*0.4 +
		math.Min(100, 100-communication.ResponseTime*10)*0.3 +
		math.Min(100, communication.AverageResponseLength*0.5)*0.3)

	confScore := clamp(emotion.Happy*0.3 +
		emotion.Neutral*0.4 +
		(100-emotion.Fearful*2-emotion.Sad*1.5)*0.3)

	bodyScore := clamp(eyeContactTier(behavior.EyeContactQuality)*0.4 +
		labelTier(behavior.HandPositioning, handsOptimal)*0.3 +
		labelTier(behavior.PostureQuality, postureProfessional)*0.3)

	stabilityScore := clamp(emotion.Neutral*0.5 +
		emotion.Happy*0.3 +
		(100-emotion.Angry*2-emotion.Fearful*2)*0.2)

	overall := int(math.Round(commScore*weightCommunication +
		confScore*weightConfidence +
		bodyScore*weightBodyLanguage +
		stabilityScore*weightStability))

	strengths, weaknesses, tips := assess(commScore, confScore, bodyScore, stabilityScore, behavior)

	recommendation := store.RecommendModerate
	switch {
	case overall >= 85:
		recommendation = store.RecommendStrong
	case overall < 60:
		recommendation = store.RecommendLow
	}

	return store.Analysis{
		SessionID:               s.ID,
		OverallScore:            overall,
		CommunicationScore:      int(math.Round(commScore)),
		ConfidenceScore:         int(math.Round(confScore)),
		BodyLanguageScore:       int(math.Round(bodyScore)),
		EmotionalStabilityScore: int(math.Round(stabilityScore)),
		Strengths:               strengths,
		Weaknesses:              weaknesses,
		CoachingTips:            tips,
		HiringRecommendation:    recommendation,
		ProcessingTime:          int(time.Since(started).Milliseconds()),
		Emotion:                 emotion,
		Behavior:                behavior,
		Communication:           communication,
		GeneratedAt:             time.Now(),
	}
}

func analyzeEmotions(samples []store.EmotionSnapshot) store.EmotionBreakdown {
	total := len(samples)
	if total == 0 {
		return store.EmotionBreakdown{}
	}
	counts := make(map[string]int, 7)
	for _, e := range samples {
		counts[e.Dominant]++
	}
	pct := func(label string) float64 {
		return float64(counts[label]) / float64(total) * 100
	}
	return store.EmotionBreakdown{
		Neutral:   pct("neutral"),
		Happy:     pct("happy"),
		Surprised: pct("surprised"),
		Sad:       pct("sad"),
		Angry:     pct("angry"),
		Fearful:   pct("fearful"),
		Disgusted: pct("disgusted"),
	}
}

func analyzeBehavior(samples []store.BehaviorSnapshot) store.BehaviorBreakdown {
	out := store.BehaviorBreakdown{
		EyeContactQuality: eyeContactUnknown,
		HandPositioning:   qualityNeedsWork,
		PostureQuality:    qualityNeedsWork,
	}
	total := len(samples)
	var eyeContact, handsAbsent, goodPosture int
	for _, b := range samples {
		if b.EyeContact {
			eyeContact++
		}
		if !b.HandPresence {
			handsAbsent++
		}
		if b.Posture == store.PostureGood {
			goodPosture++
		}
		out.BreaksInEyeContact += b.NotFacingEvents
		out.TotalTimeLookingAway += b.NotFacingSeconds
		out.PoorPostureEvents += b.BadPostureEvents
		out.PoorPostureDuration += b.BadPostureSeconds
	}
	if total == 0 {
		return out
	}
	switch ratio := float64(eyeContact) / float64(total); {
	case ratio > 0.8:
		out.EyeContactQuality = eyeContactExcellent
	case ratio > 0.6:
		out.EyeContactQuality = eyeContactGood
	default:
		out.EyeContactQuality = eyeContactPoor
	}
	if float64(handsAbsent) < float64(total)*0.2 {
		out.HandPositioning = handsOptimal
	}
	if float64(goodPosture)/float64(total) > 0.7 {
		out.PostureQuality = postureProfessional
	}
	return out
}

func analyzeCommunication(s store.Session) store.CommunicationBreakdown {
	var count int
	var totalLen, totalClarity float64
	for _, m := range s.Messages {
		if m.Role != store.RoleCandidate {
			continue
		}
		count++
		n := float64(len(m.Content))
		totalLen += n
		totalClarity += math.Min(100, n*2)
	}
	if count == 0 {
		return store.CommunicationBreakdown{}
	}
	return store.CommunicationBreakdown{
		ResponseTime:          float64(s.DurationMinutes) / float64(count),
		MessageCount:          count,
		AverageResponseLength: totalLen / float64(count),
		ClarityScore:          math.Min(100, totalClarity/float64(count)),
	}
}

func assess(comm, conf, body, stability float64, behavior store.BehaviorBreakdown) (strengths, weaknesses, tips []string) {
	if comm > 80 {
		strengths = append(strengths, "Excellent verbal communication skills")
	} else if comm < 60 {
		weaknesses = append(weaknesses, "Needs improvement in verbal communication")
	}
	if conf > 80 {
		strengths = append(strengths, "High confidence and positive demeanor")
	} else if conf < 60 {
		weaknesses = append(weaknesses, "Could benefit from confidence-building exercises")
	}
	if body > 80 {
		strengths = append(strengths, "Strong body language and professional posture")
	} else if body < 60 {
		weaknesses = append(weaknesses, "Body language needs improvement")
	}
	if stability > 80 {
		strengths = append(strengths, "Emotionally stable and composed")
	} else if stability < 60 {
		weaknesses = append(weaknesses, "May need to work on emotional regulation")
	}

	switch behavior.EyeContactQuality {
	case eyeContactExcellent:
		strengths = append(strengths, "Maintains excellent eye contact")
	case eyeContactPoor:
		weaknesses = append(weaknesses, "Eye contact needs improvement")
	}
	if behavior.HandPositioning == handsOptimal {
		strengths = append(strengths, "Good hand positioning and gestures")
	} else {
		weaknesses = append(weaknesses, "Could improve hand positioning and gestures")
	}

	if comm < 70 {
		tips = append(tips, "Practice speaking clearly and at a measured pace")
	}
	if conf < 70 {
		tips = append(tips, "Work on maintaining positive facial expressions and confident posture")
	}
	if body < 70 {
		tips = append(tips, "Practice maintaining eye contact and professional posture")
	}
	if stability < 70 {
		tips = append(tips, "Practice stress management techniques before interviews")
	}
	if behavior.BreaksInEyeContact > 10 {
		tips = append(tips, "Practice maintaining consistent eye contact during conversations")
	}

	if len(strengths) == 0 {
		strengths = []string{"Shows potential for growth"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No major weaknesses identified"}
	}
	if len(tips) == 0 {
		tips = []string{"Continue practicing interview skills"}
	}
	return strengths, weaknesses, tips
}

func eyeContactTier(quality string) float64 {
	switch quality {
	case eyeContactExcellent:
		return 100
	case eyeContactGood:
		return 75
	default:
		return 50
	}
}

func labelTier(got, want string) float64 {
	if got == want {
		return 100
	}
	return 60
}
