package web

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
)

// frameSink captures directive frames written through an attached gateway.
type frameSink struct {
	mu     sync.Mutex
	frames []outbound
	err    error
}

func (s *frameSink) send(_ context.Context, frame outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *frameSink) last() (outbound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return outbound{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func TestSpeechGateway_DetachedSpeakSucceeds(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()

	if err := g.Speak(context.Background(), tts.Request{Text: "hello"}); err != nil {
		t.Fatalf("Speak while detached: %v", err)
	}
}

func TestSpeechGateway_SpeakWaitsForAck(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{}
	g.Attach(sink.send)

	done := make(chan error, 1)
	go func() {
		done <- g.Speak(context.Background(), tts.Request{Text: "welcome"})
	}()

	var frame outbound
	deadline := time.Now().Add(time.Second)
	for {
		if f, ok := sink.last(); ok {
			frame = f
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no speak directive sent")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if frame.Type != frameSpeak {
		t.Errorf("frame type = %q, want %q", frame.Type, frameSpeak)
	}
	if frame.Text != "welcome" {
		t.Errorf("frame text = %q, want welcome", frame.Text)
	}
	if frame.UtteranceID == "" {
		t.Fatal("frame has no utterance ID")
	}

	select {
	case err := <-done:
		t.Fatalf("Speak returned before ack: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	g.Ack(frame.UtteranceID)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Speak: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Speak did not return after ack")
	}
}

func TestSpeechGateway_SpeakHonoursContext(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{}
	g.Attach(sink.send)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Speak(ctx, tts.Request{Text: "never acked"})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Speak error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Speak did not return after cancel")
	}
}

func TestSpeechGateway_DetachReleasesPending(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{}
	g.Attach(sink.send)

	done := make(chan error, 1)
	go func() {
		done <- g.Speak(context.Background(), tts.Request{Text: "orphaned"})
	}()

	time.Sleep(10 * time.Millisecond)
	g.Detach()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Speak after detach: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Speak did not return after detach")
	}
}

func TestSpeechGateway_PicksVoiceFromInventory(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{}
	g.Attach(sink.send)
	g.SetVoices([]tts.Voice{
		{Name: "Microsoft David", Lang: "en-US"},
		{Name: "Google UK English Female", Lang: "en-GB"},
	})

	go func() {
		_ = g.Speak(context.Background(), tts.Request{Text: "voice check"})
	}()

	deadline := time.Now().Add(time.Second)
	for {
		if f, ok := sink.last(); ok {
			if f.Voice != "Google UK English Female" {
				t.Errorf("voice = %q, want Google UK English Female", f.Voice)
			}
			g.Ack(f.UtteranceID)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no speak directive sent")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSpeechGateway_PreferredVoice(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{}
	g.Attach(sink.send)
	g.SetPreferredVoice("Microsoft David")
	g.SetVoices([]tts.Voice{
		{Name: "Microsoft David", Lang: "en-US"},
		{Name: "Google UK English Female", Lang: "en-GB"},
	})

	go func() {
		_ = g.Speak(context.Background(), tts.Request{Text: "configured voice"})
	}()

	deadline := time.Now().Add(time.Second)
	for {
		if f, ok := sink.last(); ok {
			if f.Voice != "Microsoft David" {
				t.Errorf("voice = %q, want the configured Microsoft David", f.Voice)
			}
			g.Ack(f.UtteranceID)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no speak directive sent")
		}
		time.Sleep(2 * time.Millisecond)
	}

	// An explicit per-request voice still wins over the configured one.
	go func() {
		_ = g.Speak(context.Background(), tts.Request{Text: "explicit voice", VoiceName: "Samantha"})
	}()

	deadline = time.Now().Add(time.Second)
	for {
		if f, ok := sink.last(); ok && f.Text == "explicit voice" {
			if f.Voice != "Samantha" {
				t.Errorf("voice = %q, want the requested Samantha", f.Voice)
			}
			g.Ack(f.UtteranceID)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no speak directive sent for explicit voice")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSpeechGateway_Resume(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()

	// Detached, Resume has nowhere to deliver and must be a no-op.
	g.Resume()

	sink := &frameSink{}
	g.Attach(sink.send)
	g.Resume()

	frame, ok := sink.last()
	if !ok {
		t.Fatal("no resume directive sent")
	}
	if frame.Type != frameResume {
		t.Errorf("frame type = %q, want %q", frame.Type, frameResume)
	}
}

func TestSpeechGateway_SendFailure(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()
	sink := &frameSink{err: errors.New("connection gone")}
	g.Attach(sink.send)

	err := g.Speak(context.Background(), tts.Request{Text: "lost"})
	if err == nil {
		t.Fatal("expected error when send fails")
	}
}

func TestSpeechGateway_ListVoices(t *testing.T) {
	t.Parallel()
	g := NewSpeechGateway()

	voices, err := g.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 0 {
		t.Errorf("len(voices) = %d, want 0 before any client attaches", len(voices))
	}

	g.SetVoices([]tts.Voice{{Name: "Samantha", Lang: "en-US"}})
	voices, err = g.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 1 || voices[0].Name != "Samantha" {
		t.Errorf("voices = %v, want [Samantha]", voices)
	}
}
