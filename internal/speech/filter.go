// Package speech implements the server side of the spoken interview loop:
// filtering raw recognition hypotheses, assembling them into submitted
// answers, and queueing the interviewer's own utterances so that only one
// plays at a time.
package speech

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultMinLength        = 2
	defaultNearDupThreshold = 0.92
)

// noisePatterns match transcripts that speech recognition produces from
// background sound rather than speech: vowel-only or consonant-only runs and
// filler syllables. Repeated single characters are caught by isRepeatedRune;
// RE2 has no backreferences.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[aeiou]+$`),
	regexp.MustCompile(`^[bcdfghjklmnpqrstvwxyz]+$`),
	regexp.MustCompile(`^(um|uh|ah|er|hmm|mmm)+$`),
}

// FilterOption is a functional option for configuring a [Filter].
type FilterOption func(*Filter)

// WithMinLength sets the minimum transcript length in characters, after
// trimming. Default: 2.
func WithMinLength(n int) FilterOption {
	return func(f *Filter) {
		f.minLength = n
	}
}

// WithNearDupThreshold sets the Jaro-Winkler similarity above which a
// transcript is considered a near-duplicate of the previously accepted one.
// Default: 0.92.
func WithNearDupThreshold(threshold float64) FilterOption {
	return func(f *Filter) {
		f.nearDupThreshold = threshold
	}
}

// Filter decides which recognition hypotheses are worth keeping. Recognition
// engines restart mid-utterance and re-emit overlapping text, so the filter
// rejects noise, internal repetition, and near-duplicates of what was already
// accepted.
//
// Filter is not safe for concurrent use; each recognition stream owns one.
type Filter struct {
	minLength        int
	nearDupThreshold float64

	lastAccepted string
}

// NewFilter returns a new [Filter] configured with the supplied options.
func NewFilter(opts ...FilterOption) *Filter {
	f := &Filter{
		minLength:        defaultMinLength,
		nearDupThreshold: defaultNearDupThreshold,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Accept reports whether transcript should be kept. Accepted transcripts
// become the reference for subsequent near-duplicate checks.
func (f *Filter) Accept(transcript string) bool {
	t := strings.ToLower(strings.TrimSpace(transcript))
	if len(t) < f.minLength {
		return false
	}
	for _, p := range noisePatterns {
		if p.MatchString(t) {
			return false
		}
	}
	if isRepeatedRune(t) {
		return false
	}
	if hasRepeatedTrigram(t) {
		return false
	}
	if f.lastAccepted != "" {
		if score := matchr.JaroWinkler(t, f.lastAccepted, false); score >= f.nearDupThreshold {
			return false
		}
	}
	f.lastAccepted = t
	return true
}

// Reset clears the duplicate-detection state, typically between questions.
func (f *Filter) Reset() {
	f.lastAccepted = ""
}

// isRepeatedRune reports whether t is one rune repeated three or more times
// ("aaa", "zzzz"), a shape recognition engines emit for sustained noise.
func isRepeatedRune(t string) bool {
	runes := []rune(t)
	if len(runes) < 3 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// hasRepeatedTrigram reports whether any three-word sequence occurs more than
// once in t. Recognition loops ("I think that I think that ...") show up as
// repeated trigrams long before they dominate the transcript.
func hasRepeatedTrigram(t string) bool {
	words := strings.Fields(t)
	if len(words) < 6 {
		return false
	}
	seen := make(map[string]struct{}, len(words))
	for i := 0; i+3 <= len(words); i++ {
		tri := strings.Join(words[i:i+3], " ")
		if _, ok := seen[tri]; ok {
			return true
		}
		seen[tri] = struct{}{}
	}
	return false
}
