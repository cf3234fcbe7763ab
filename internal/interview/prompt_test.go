package interview

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

func promptSession() store.Session {
	return store.Session{
		CandidateName:   "Jordan",
		JobTitle:        "Data Scientist",
		DurationMinutes: 10,
		Backend:         "gemini",
	}
}

func TestOpeningPrompt(t *testing.T) {
	t.Parallel()
	got := OpeningPrompt(promptSession())
	for _, want := range []string{
		"Ava Taylor",
		"Jordan",
		"Data Scientist",
		"powered by Gemini",
		"FULL 10-minute interview",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("opening prompt missing %q", want)
		}
	}
}

func TestModelDisplayName(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"gemini":  "Gemini",
		"chatgpt": "ChatGPT",
		"grok":    "Grok",
		"unknown": "Gemini",
	}
	for backend, want := range tests {
		if got := modelDisplayName(backend); got != want {
			t.Errorf("modelDisplayName(%q) = %q, want %q", backend, got, want)
		}
	}
}

func TestFollowUpPrompt_HistoryWindow(t *testing.T) {
	t.Parallel()
	s := promptSession()
	for i := 1; i <= 6; i++ {
		role := store.RoleHR
		if i%2 == 0 {
			role = store.RoleCandidate
		}
		s.Messages = append(s.Messages, store.ChatMessage{
			Role:    role,
			Content: fmt.Sprintf("message number %d", i),
		})
	}
	got := FollowUpPrompt(s, 12*time.Minute)

	for i := 3; i <= 6; i++ {
		if !strings.Contains(got, fmt.Sprintf("message number %d", i)) {
			t.Errorf("follow-up prompt missing recent message %d", i)
		}
	}
	for i := 1; i <= 2; i++ {
		if strings.Contains(got, fmt.Sprintf("message number %d", i)) {
			t.Errorf("follow-up prompt should not carry old message %d", i)
		}
	}
	if !strings.Contains(got, "Jordan: message number 4") {
		t.Error("candidate turns should be attributed by name")
	}
	if !strings.Contains(got, "Ava: message number 5") {
		t.Error("interviewer turns should be attributed to Ava")
	}
}

func TestFollowUpPrompt_PacingTiers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{12 * time.Minute, "plenty of time"},
		{8 * time.Minute, "wrap up topics"},
		{3 * time.Minute, "naturally concluding"},
	}
	for _, tt := range tests {
		got := FollowUpPrompt(promptSession(), tt.remaining)
		if !strings.Contains(got, tt.want) {
			t.Errorf("remaining %v: prompt missing pacing hint %q", tt.remaining, tt.want)
		}
	}
}

func TestClosingMessage(t *testing.T) {
	t.Parallel()
	got := ClosingMessage("Jordan")
	if !strings.HasPrefix(got, "Thank you, Jordan, for taking the time") {
		t.Errorf("ClosingMessage = %q", got)
	}
}
