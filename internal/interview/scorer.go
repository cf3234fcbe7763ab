package interview

import (
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Initial gauge values for a fresh session.
const (
	initialConfidence    = 85
	initialEngagement    = 72
	initialAttentiveness = 90
)

// No-response decay: the first penalty lands after the interviewer has waited
// this long for an answer, then repeats at the shorter interval until a
// response arrives.
const (
	decayInitialWait = 30 * time.Second
	decayRepeat      = 15 * time.Second
)

// delta is a signed adjustment to the three gauges.
type delta struct {
	confidence    float64
	engagement    float64
	attentiveness float64
}

// decayDelta is the penalty applied each time the no-response timer fires.
var decayDelta = delta{confidence: -2, engagement: -3, attentiveness: -4}

// emotionDeltas maps a dominant emotion label to its gauge adjustments,
// applied scaled by the classifier's confidence.
var emotionDeltas = map[string]delta{
	"happy":     {confidence: 2, engagement: 3, attentiveness: 1},
	"neutral":   {confidence: 0.5, engagement: 0.5, attentiveness: 0.5},
	"surprised": {confidence: 1, engagement: 2, attentiveness: 1},
	"sad":       {confidence: -3, engagement: -2, attentiveness: -1},
	"angry":     {confidence: -2, engagement: -1, attentiveness: -1},
	"fearful":   {confidence: -4, engagement: -2, attentiveness: -2},
	"disgusted": {confidence: -1, engagement: -1, attentiveness: -0.5},
}

// DefaultScores returns the gauge values every session starts from.
func DefaultScores() store.LiveScores {
	return store.LiveScores{
		Confidence:    initialConfidence,
		Engagement:    initialEngagement,
		Attentiveness: initialAttentiveness,
	}
}

// Scorer maintains the three rolling performance gauges. Updates are
// incremental: each snapshot contributes signed deltas that are summed,
// applied, and clamped to [0, 100]. The gauges are never recomputed from
// scratch while a session runs.
//
// Scorer is not safe for concurrent use; the session controller owns it.
type Scorer struct {
	scores store.LiveScores
}

// NewScorer returns a Scorer at the default gauge values.
func NewScorer() *Scorer {
	return &Scorer{scores: DefaultScores()}
}

// Scores returns the current gauge values.
func (s *Scorer) Scores() store.LiveScores { return s.scores }

// Reset returns all gauges to their defaults.
func (s *Scorer) Reset() { s.scores = DefaultScores() }

// ApplyBehavior folds one body-language snapshot into the gauges and returns
// the updated values.
func (s *Scorer) ApplyBehavior(b store.BehaviorSnapshot) store.LiveScores {
	var d delta
	if b.EyeContact {
		d = d.add(delta{confidence: 1, attentiveness: 2})
	} else {
		d = d.add(delta{confidence: -2, attentiveness: -3})
	}
	if b.HandPresence {
		d = d.add(delta{confidence: 0.5, engagement: 0.5})
	} else {
		d = d.add(delta{confidence: -1, engagement: -1})
	}
	if b.Posture == store.PostureGood {
		d = d.add(delta{confidence: 1, engagement: 0.5, attentiveness: 0.5})
	} else {
		d = d.add(delta{confidence: -2, engagement: -1, attentiveness: -1})
	}
	return s.apply(d)
}

// ApplyEmotion folds one facial-expression snapshot into the gauges, scaled
// by classifier confidence, and returns the updated values. Unknown emotion
// labels leave the gauges unchanged.
func (s *Scorer) ApplyEmotion(e store.EmotionSnapshot) store.LiveScores {
	d, ok := emotionDeltas[e.Dominant]
	if !ok {
		return s.scores
	}
	return s.apply(d.scale(e.Confidence))
}

// ApplyDecay applies one no-response penalty and returns the updated values.
func (s *Scorer) ApplyDecay() store.LiveScores {
	return s.apply(decayDelta)
}

func (s *Scorer) apply(d delta) store.LiveScores {
	s.scores.Confidence = clamp(s.scores.Confidence + d.confidence)
	s.scores.Engagement = clamp(s.scores.Engagement + d.engagement)
	s.scores.Attentiveness = clamp(s.scores.Attentiveness + d.attentiveness)
	return s.scores
}

func (d delta) add(o delta) delta {
	return delta{
		confidence:    d.confidence + o.confidence,
		engagement:    d.engagement + o.engagement,
		attentiveness: d.attentiveness + o.attentiveness,
	}
}

func (d delta) scale(f float64) delta {
	return delta{
		confidence:    d.confidence * f,
		engagement:    d.engagement * f,
		attentiveness: d.attentiveness * f,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
