package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/stt"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/stt/relay"
)

func TestPushAndReceive(t *testing.T) {
	t.Parallel()
	p := relay.New()

	handle, err := p.StartStream(context.Background(), stt.StreamConfig{Language: "en-US", InterimResults: true})
	if err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	sess := handle.(*relay.Session)
	defer sess.Close()

	if sess.Config().Language != "en-US" {
		t.Errorf("Config.Language: want en-US, got %q", sess.Config().Language)
	}

	want := []stt.Result{
		{Transcript: "I worked", IsFinal: false},
		{Transcript: "I worked on backend systems", IsFinal: true, Confidence: 0.92},
	}
	for _, r := range want {
		if err := sess.Push(r); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	for i, w := range want {
		select {
		case got := <-sess.Results():
			if got.Transcript != w.Transcript || got.IsFinal != w.IsFinal {
				t.Errorf("result[%d]: want %+v, got %+v", i, w, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("result[%d]: timed out", i)
		}
	}
}

func TestClose(t *testing.T) {
	t.Parallel()
	p := relay.New()

	handle, err := p.StartStream(context.Background(), stt.StreamConfig{})
	if err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	sess := handle.(*relay.Session)

	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Results channel is closed.
	if _, ok := <-sess.Results(); ok {
		t.Error("expected closed Results channel")
	}
	// Push after Close errors.
	if err := sess.Push(stt.Result{Transcript: "late"}); err == nil {
		t.Error("Push after Close: expected error, got nil")
	}
	// Double Close is safe.
	if err := sess.Close(); err != nil {
		t.Errorf("second Close: unexpected error: %v", err)
	}
}

func TestContextCancelClosesSession(t *testing.T) {
	t.Parallel()
	p := relay.New()

	ctx, cancel := context.WithCancel(context.Background())
	handle, err := p.StartStream(ctx, stt.StreamConfig{})
	if err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	sess := handle.(*relay.Session)

	cancel()

	deadline := time.After(time.Second)
	for {
		if err := sess.Push(stt.Result{Transcript: "x"}); err != nil {
			return // session closed by cancellation
		}
		select {
		case <-deadline:
			t.Fatal("session not closed after context cancellation")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStartStream_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := relay.New().StartStream(ctx, stt.StreamConfig{}); err == nil {
		t.Error("expected error for already-cancelled context")
	}
}

func TestPushDropsOldestWhenSaturated(t *testing.T) {
	t.Parallel()
	p := relay.New()

	handle, err := p.StartStream(context.Background(), stt.StreamConfig{})
	if err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	sess := handle.(*relay.Session)
	defer sess.Close()

	// Overfill the buffer without a consumer; Push must not block.
	for i := 0; i < 200; i++ {
		if err := sess.Push(stt.Result{Transcript: "r", Confidence: float64(i)}); err != nil {
			t.Fatalf("Push[%d]: %v", i, err)
		}
	}

	// The most recent result must still be retrievable.
	var last stt.Result
	for {
		select {
		case r, ok := <-sess.Results():
			if !ok {
				t.Fatal("channel closed unexpectedly")
			}
			last = r
			continue
		default:
		}
		break
	}
	if last.Confidence != 199 {
		t.Errorf("newest result: want confidence 199, got %v", last.Confidence)
	}
}
