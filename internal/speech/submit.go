package speech

import (
	"strings"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/stt"
)

// autoSubmitConfidence is the minimum per-result confidence for a finalized
// transcript to submit without the candidate pressing anything.
const autoSubmitConfidence = 0.7

// ShouldAutoSubmit reports whether a recognition result ends the candidate's
// turn on its own. Only a finalized, non-empty, high-confidence result
// qualifies, and never while the interviewer is speaking or a previous
// submission is still being processed.
func ShouldAutoSubmit(res stt.Result, speaking, processing bool) bool {
	if speaking || processing {
		return false
	}
	if !res.IsFinal {
		return false
	}
	if strings.TrimSpace(res.Transcript) == "" {
		return false
	}
	return res.Confidence > autoSubmitConfidence
}
