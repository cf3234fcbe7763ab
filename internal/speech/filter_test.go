package speech

import "testing"

func TestFilter_Accept(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		transcript string
		want       bool
	}{
		{"normal sentence", "I led the migration to Kubernetes", true},
		{"too short", "a", false},
		{"whitespace only", "   ", false},
		{"vowel noise", "aaa", false},
		{"mixed vowel noise", "aeiou", false},
		{"consonant noise", "bcdfg", false},
		{"repeated char", "zzzz", false},
		{"repeated digit", "111", false},
		{"repeated punctuation", "???", false},
		{"filler only", "um", false},
		{"chained filler", "umuhah", false},
		{"filler inside sentence ok", "um I think it went well", true},
		{"two chars", "ok", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := NewFilter()
			if got := f.Accept(tt.transcript); got != tt.want {
				t.Errorf("Accept(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestFilter_RejectsRepeatedTrigram(t *testing.T) {
	t.Parallel()
	f := NewFilter()
	if f.Accept("I think that I think that went well") {
		t.Error("transcript with a repeated trigram should be rejected")
	}
	if !f.Accept("I think that the interview went well") {
		t.Error("transcript without repetition should be accepted")
	}
}

func TestFilter_RejectsNearDuplicate(t *testing.T) {
	t.Parallel()
	f := NewFilter()
	if !f.Accept("I worked at a startup for three years") {
		t.Fatal("first transcript should be accepted")
	}
	if f.Accept("I worked at a startup for three year") {
		t.Error("near-identical transcript should be rejected")
	}
	if !f.Accept("My biggest strength is debugging under pressure") {
		t.Error("unrelated transcript should be accepted")
	}
}

func TestFilter_ResetClearsDuplicateState(t *testing.T) {
	t.Parallel()
	f := NewFilter()
	if !f.Accept("tell me about yourself") {
		t.Fatal("first transcript should be accepted")
	}
	f.Reset()
	if !f.Accept("tell me about yourself") {
		t.Error("identical transcript should be accepted after Reset")
	}
}

func TestFilter_Options(t *testing.T) {
	t.Parallel()
	f := NewFilter(WithMinLength(5), WithNearDupThreshold(1.0))
	if f.Accept("hiya") {
		t.Error("transcript below custom min length should be rejected")
	}
	if !f.Accept("hello there") {
		t.Fatal("first transcript should be accepted")
	}
	if !f.Accept("hello their") {
		t.Error("threshold 1.0 should only reject exact duplicates")
	}
}
