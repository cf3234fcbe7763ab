package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/store"
	"github.com/TejasKumarBoddu1/ava/pkg/store/memstore"
)

func TestPutAndGetSession(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	ctx := context.Background()

	sess := store.Session{
		ID:              "s1",
		CandidateName:   "Alice",
		JobTitle:        "Software Engineer",
		DurationMinutes: 15,
		Backend:         "gemini",
		Status:          store.StatusActive,
		StartedAt:       time.Now(),
		Scores:          store.LiveScores{Confidence: 85, Engagement: 72, Attentiveness: 90},
		Messages: []store.ChatMessage{
			{ID: "m1", Role: store.RoleHR, Content: "Tell me about yourself.", Timestamp: time.Now()},
		},
	}
	if err := s.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession: %v", err)
	}

	got, err := s.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("GetSession: expected session, got nil")
	}
	if got.CandidateName != "Alice" {
		t.Errorf("CandidateName: want Alice, got %q", got.CandidateName)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("Messages: want 1, got %d", len(got.Messages))
	}

	// Mutating the returned copy must not affect stored state.
	got.Messages[0].Content = "mutated"
	again, _ := s.GetSession(ctx, "s1")
	if again.Messages[0].Content != "Tell me about yourself." {
		t.Error("stored session aliased caller's copy")
	}

	// Missing session returns (nil, nil).
	missing, err := s.GetSession(ctx, "nope")
	if err != nil {
		t.Fatalf("GetSession missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetSession missing: want nil, got %+v", missing)
	}
}

func TestPutSession_Upsert(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	ctx := context.Background()

	sess := store.Session{ID: "s1", Status: store.StatusActive, StartedAt: time.Now()}
	if err := s.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession: %v", err)
	}

	sess.Status = store.StatusCompleted
	sess.EndedAt = time.Now()
	if err := s.PutSession(ctx, sess); err != nil {
		t.Fatalf("PutSession replace: %v", err)
	}

	got, _ := s.GetSession(ctx, "s1")
	if got.Status != store.StatusCompleted {
		t.Errorf("Status after upsert: want completed, got %s", got.Status)
	}
}

func TestPutSession_EmptyID(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	if err := s.PutSession(context.Background(), store.Session{}); err == nil {
		t.Error("PutSession empty ID: expected error, got nil")
	}
}

func TestListSessions(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	ctx := context.Background()
	now := time.Now()

	sessions := []store.Session{
		{ID: "oldest", Status: store.StatusCompleted, StartedAt: now.Add(-3 * time.Hour), EndedAt: now.Add(-2 * time.Hour)},
		{ID: "newest", Status: store.StatusCompleted, StartedAt: now.Add(-1 * time.Hour), EndedAt: now.Add(-30 * time.Minute)},
		{ID: "running", Status: store.StatusActive, StartedAt: now.Add(-5 * time.Minute)},
		{ID: "cut-short", Status: store.StatusTerminated, StartedAt: now.Add(-2 * time.Hour), EndedAt: now.Add(-90 * time.Minute)},
	}
	for _, sess := range sessions {
		if err := s.PutSession(ctx, sess); err != nil {
			t.Fatalf("PutSession %s: %v", sess.ID, err)
		}
	}

	all, err := s.ListSessions(ctx, store.ListOpts{})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	wantOrder := []string{"newest", "cut-short", "oldest", "running"}
	if len(all) != len(wantOrder) {
		t.Fatalf("ListSessions: want %d, got %d", len(wantOrder), len(all))
	}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("ListSessions[%d]: want %s, got %s", i, want, all[i].ID)
		}
	}

	completed, err := s.ListSessions(ctx, store.ListOpts{Status: store.StatusCompleted})
	if err != nil {
		t.Fatalf("ListSessions completed: %v", err)
	}
	if len(completed) != 2 {
		t.Errorf("status filter: want 2, got %d", len(completed))
	}

	limited, err := s.ListSessions(ctx, store.ListOpts{Limit: 1})
	if err != nil {
		t.Fatalf("ListSessions limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "newest" {
		t.Errorf("limit: want [newest], got %v", sessionIDs(limited))
	}
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	ctx := context.Background()

	if err := s.PutSession(ctx, store.Session{ID: "s1", Status: store.StatusCompleted}); err != nil {
		t.Fatalf("PutSession: %v", err)
	}
	if err := s.PutAnalysis(ctx, store.Analysis{SessionID: "s1", OverallScore: 70}); err != nil {
		t.Fatalf("PutAnalysis: %v", err)
	}

	if err := s.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if got, _ := s.GetSession(ctx, "s1"); got != nil {
		t.Error("session still present after delete")
	}
	if got, _ := s.GetAnalysis(ctx, "s1"); got != nil {
		t.Error("analysis still present after session delete")
	}

	// Deleting a non-existent session is not an error.
	if err := s.DeleteSession(ctx, "never-existed"); err != nil {
		t.Errorf("DeleteSession non-existent: unexpected error: %v", err)
	}
}

func TestAnalysisRoundTrip(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	ctx := context.Background()

	if err := s.PutSession(ctx, store.Session{ID: "s1", Status: store.StatusCompleted}); err != nil {
		t.Fatalf("PutSession: %v", err)
	}

	a := store.Analysis{
		SessionID:            "s1",
		OverallScore:         78,
		CommunicationScore:   80,
		Strengths:            []string{"Excellent verbal communication skills"},
		Weaknesses:           []string{"No major weaknesses identified"},
		CoachingTips:         []string{"Continue practicing interview skills"},
		HiringRecommendation: store.RecommendModerate,
		GeneratedAt:          time.Now(),
	}
	if err := s.PutAnalysis(ctx, a); err != nil {
		t.Fatalf("PutAnalysis: %v", err)
	}

	got, err := s.GetAnalysis(ctx, "s1")
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got == nil {
		t.Fatal("GetAnalysis: expected analysis, got nil")
	}
	if got.OverallScore != 78 {
		t.Errorf("OverallScore: want 78, got %d", got.OverallScore)
	}
	if got.HiringRecommendation != store.RecommendModerate {
		t.Errorf("HiringRecommendation: want Moderate, got %s", got.HiringRecommendation)
	}

	// Analysis for a session that was never stored.
	if err := s.PutAnalysis(ctx, store.Analysis{SessionID: "ghost"}); err == nil {
		t.Error("PutAnalysis for missing session: expected error, got nil")
	}

	// Missing analysis returns (nil, nil).
	missing, err := s.GetAnalysis(ctx, "no-analysis")
	if err != nil {
		t.Fatalf("GetAnalysis missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetAnalysis missing: want nil, got %+v", missing)
	}
}

func sessionIDs(sessions []store.Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
