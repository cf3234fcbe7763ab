package web

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
)

// Compile-time interface check.
var _ tts.Provider = (*SpeechGateway)(nil)

// SpeechGateway implements [tts.Provider] over the candidate's signal
// websocket. Speech synthesis happens in the browser: Speak sends a speak
// directive down the attached connection and blocks until the client reports
// playback finished, so the speech manager's one-at-a-time queue and the
// microphone gating both hold across the network boundary.
//
// At most one connection is attached at a time. When no client is attached,
// Speak succeeds immediately: the interview carries on text-only rather than
// stalling on a candidate who denied audio.
//
// All methods are safe for concurrent use.
type SpeechGateway struct {
	mu        sync.Mutex
	send      func(ctx context.Context, frame outbound) error
	voices    []tts.Voice
	preferred string
	pending   map[string]chan struct{}
	newID     func() string
}

// NewSpeechGateway returns a detached gateway.
func NewSpeechGateway() *SpeechGateway {
	return &SpeechGateway{
		pending: make(map[string]chan struct{}),
		newID:   uuid.NewString,
	}
}

// Attach binds the gateway to a connection's write function. Any utterances
// still awaiting playback acknowledgement from a previous connection are
// released as finished.
func (g *SpeechGateway) Attach(send func(ctx context.Context, frame outbound) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releaseAllLocked()
	g.send = send
}

// Detach unbinds the current connection and releases all in-flight
// utterances, unblocking any Speak call waiting on an ack that will never
// arrive.
func (g *SpeechGateway) Detach() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.send = nil
	g.releaseAllLocked()
}

func (g *SpeechGateway) releaseAllLocked() {
	for id, ch := range g.pending {
		close(ch)
		delete(g.pending, id)
	}
}

// SetVoices records the voice inventory reported by the client.
func (g *SpeechGateway) SetVoices(voices []tts.Voice) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voices = append([]tts.Voice(nil), voices...)
}

// SetPreferredVoice pins the interviewer to the named synthesis voice.
// When set, it overrides the inventory-based pick for requests that name no
// voice of their own.
func (g *SpeechGateway) SetPreferredVoice(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.preferred = name
}

// Resume tells the attached client to reopen the microphone. Detached
// gateways drop the directive; a client that reconnects starts with its
// microphone open anyway.
func (g *SpeechGateway) Resume() {
	g.mu.Lock()
	send := g.send
	g.mu.Unlock()
	if send == nil {
		return
	}
	_ = send(context.Background(), outbound{Type: frameResume})
}

// Ack marks the utterance with the given ID as finished playing.
// Unknown IDs are ignored; a reconnecting client may ack stale utterances.
func (g *SpeechGateway) Ack(utteranceID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch, ok := g.pending[utteranceID]; ok {
		close(ch)
		delete(g.pending, utteranceID)
	}
}

// Speak implements [tts.Provider]. It sends a speak directive to the attached
// client and blocks until playback is acknowledged or ctx is cancelled. When
// the request names no voice, the gateway picks one from the client's
// reported inventory.
func (g *SpeechGateway) Speak(ctx context.Context, req tts.Request) error {
	g.mu.Lock()
	if g.send == nil {
		g.mu.Unlock()
		return nil
	}
	send := g.send

	voiceName := req.VoiceName
	if voiceName == "" {
		voiceName = g.preferred
	}
	if voiceName == "" {
		if v, ok := tts.ChooseVoice(g.voices); ok {
			voiceName = v.Name
		}
	}

	id := g.newID()
	done := make(chan struct{})
	g.pending[id] = done
	g.mu.Unlock()

	frame := outbound{
		Type:        frameSpeak,
		UtteranceID: id,
		Text:        req.Text,
		Voice:       voiceName,
		Rate:        req.Rate,
		Pitch:       req.Pitch,
		Volume:      req.Volume,
	}
	if err := send(ctx, frame); err != nil {
		g.mu.Lock()
		delete(g.pending, id)
		g.mu.Unlock()
		return fmt.Errorf("web: send speak directive: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		delete(g.pending, id)
		g.mu.Unlock()
		return ctx.Err()
	}
}

// ListVoices implements [tts.Provider] by returning the inventory the client
// reported on connect. Empty until a client attaches and sends its voices.
func (g *SpeechGateway) ListVoices(_ context.Context) ([]tts.Voice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]tts.Voice(nil), g.voices...), nil
}
