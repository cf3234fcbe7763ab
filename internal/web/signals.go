package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/TejasKumarBoddu1/ava/internal/speech"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/stt"
	sttrelay "github.com/TejasKumarBoddu1/ava/pkg/provider/stt/relay"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/vision"
	visionrelay "github.com/TejasKumarBoddu1/ava/pkg/provider/vision/relay"
	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// Frame types on the signal websocket. The client streams recognition and
// camera signals up; the service streams directives back.
const (
	// Client → server.
	frameSpeech     = "speech"
	frameEmotion    = "emotion"
	frameBehavior   = "behavior"
	frameDetections = "detections"
	framePresence   = "presence"
	frameMute       = "mute"
	frameSubmit     = "submit"
	frameVoices     = "voices"
	frameSpoken     = "spoken"

	// Server → client.
	frameSpeak      = "speak"
	frameResume     = "resume"
	frameScores     = "scores"
	frameTranscript = "transcript"
	frameWarning    = "warning"
	frameEnded      = "ended"
)

// inbound is a client frame. Type selects which payload field is set.
type inbound struct {
	Type string `json:"type"`

	// frameSpeech
	Transcript string  `json:"transcript,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	IsFinal    bool    `json:"isFinal,omitempty"`

	// frameEmotion / frameBehavior / frameDetections / framePresence
	Emotion    *store.EmotionSnapshot  `json:"emotion,omitempty"`
	Behavior   *store.BehaviorSnapshot `json:"behavior,omitempty"`
	Detections []store.Detection       `json:"detections,omitempty"`
	Presence   *vision.Presence        `json:"presence,omitempty"`

	// frameMute
	Muted bool `json:"muted,omitempty"`

	// frameVoices
	Voices []tts.Voice `json:"voices,omitempty"`

	// frameSpoken
	UtteranceID string `json:"utteranceId,omitempty"`
}

// outbound is a server directive frame.
type outbound struct {
	Type string `json:"type"`

	// frameSpeak
	UtteranceID string  `json:"utteranceId,omitempty"`
	Text        string  `json:"text,omitempty"`
	Voice       string  `json:"voice,omitempty"`
	Rate        float64 `json:"rate,omitempty"`
	Pitch       float64 `json:"pitch,omitempty"`
	Volume      float64 `json:"volume,omitempty"`

	// frameScores
	Scores *store.LiveScores `json:"scores,omitempty"`
	Paused bool              `json:"paused,omitempty"`

	// frameTranscript
	Confirmed string `json:"confirmed,omitempty"`
	Pending   string `json:"pending,omitempty"`

	// frameWarning / frameEnded
	Message string              `json:"message,omitempty"`
	Status  store.SessionStatus `json:"status,omitempty"`
	Reason  string              `json:"reason,omitempty"`
}

// signalSocket upgrades GET /ws/sessions/{id} and relays signals for the
// live session. Recognition hypotheses and camera observations are pushed
// into the stt and vision relay providers; consumer goroutines drain the
// relay channels into the controller. Speak directives flow back through the
// attached [SpeechGateway].
func (a *API) signalSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, ok := a.ctrl.Snapshot()
	if !ok || snap.ID != id {
		writeError(w, http.StatusNotFound, "no active session "+id)
		return
	}
	if snap.Status != store.StatusActive {
		writeError(w, http.StatusConflict, "session "+id+" already ended")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		a.log.Warn("websocket accept", "session_id", id, "err", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	a.metrics.ConnectedClients.Add(ctx, 1)
	defer a.metrics.ConnectedClients.Add(context.Background(), -1)

	sc, err := newSignalConn(ctx, a, conn, id)
	if err != nil {
		a.log.Error("open signal relays", "session_id", id, "err", err)
		conn.Close(websocket.StatusInternalError, "relay setup failed")
		return
	}
	defer sc.close()

	a.gateway.Attach(sc.write)
	defer a.gateway.Detach()

	a.log.Info("signal client connected", "session_id", id)
	sc.run(ctx)
	a.log.Info("signal client disconnected", "session_id", id)

	conn.Close(websocket.StatusNormalClosure, "")
}

// signalConn is the per-connection state: the websocket, the relay sessions
// fed from it, and the transcript assembly pipeline.
type signalConn struct {
	api  *API
	conn *websocket.Conn
	id   string
	log  *slog.Logger

	speechSess *sttrelay.Session
	visionSess *visionrelay.Session

	// asm and filt belong to the speech consumer goroutine; submitCh asks it
	// to flush the assembled transcript on the candidate's behalf.
	asm      *speech.Assembler
	filt     *speech.Filter
	submitCh chan struct{}

	// writeMu serialises directive frames from the reader, the consumers,
	// and the speech gateway.
	writeMu sync.Mutex

	// stateMu guards warningsSent and endedSent; both speech and vision
	// consumers forward state.
	stateMu sync.Mutex

	// warningsSent tracks how many proctoring warnings have been forwarded.
	warningsSent int

	// endedSent records that the end-of-session frame went out, so repeated
	// state forwards cannot resend it.
	endedSent bool

	wg sync.WaitGroup
}

func newSignalConn(ctx context.Context, a *API, conn *websocket.Conn, id string) (*signalConn, error) {
	speechHandle, err := sttrelay.New().StartStream(ctx, stt.StreamConfig{
		Language:       a.speechLang,
		InterimResults: true,
	})
	if err != nil {
		return nil, err
	}
	visionHandle, err := visionrelay.New().StartStream(ctx, vision.StreamConfig{})
	if err != nil {
		speechHandle.Close()
		return nil, err
	}

	return &signalConn{
		api:        a,
		conn:       conn,
		id:         id,
		log:        a.log.With("session_id", id),
		speechSess: speechHandle.(*sttrelay.Session),
		visionSess: visionHandle.(*visionrelay.Session),
		asm:        speech.NewAssembler(),
		filt:       speech.NewFilter(a.filterOpts...),
		submitCh:   make(chan struct{}, 1),
	}, nil
}

// write sends one directive frame. Safe for concurrent use.
func (sc *signalConn) write(ctx context.Context, frame outbound) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.conn.Write(ctx, websocket.MessageText, data)
}

// run starts the relay consumers and blocks reading client frames until the
// connection drops, ctx ends, or the session leaves the active state.
func (sc *signalConn) run(ctx context.Context) {
	sc.wg.Add(2)
	go func() {
		defer sc.wg.Done()
		sc.consumeSpeech(ctx)
	}()
	go func() {
		defer sc.wg.Done()
		sc.consumeVision(ctx)
	}()

	for {
		_, data, err := sc.conn.Read(ctx)
		if err != nil {
			return
		}
		var frame inbound
		if err := json.Unmarshal(data, &frame); err != nil {
			sc.log.Warn("bad signal frame", "err", err)
			continue
		}
		if done := sc.dispatch(ctx, frame); done {
			return
		}
	}
}

// close tears down the relay sessions and waits for the consumers to drain.
func (sc *signalConn) close() {
	_ = sc.speechSess.Close()
	_ = sc.visionSess.Close()
	sc.wg.Wait()
}

// dispatch routes one client frame. Returns true when the session has ended
// and the connection should close.
func (sc *signalConn) dispatch(ctx context.Context, frame inbound) bool {
	a := sc.api
	switch frame.Type {
	case frameSpeech:
		a.metrics.RecordSignal(ctx, frameSpeech)
		if err := sc.speechSess.Push(stt.Result{
			Transcript: frame.Transcript,
			IsFinal:    frame.IsFinal,
			Confidence: frame.Confidence,
			Timestamp:  time.Now(),
		}); err != nil {
			sc.log.Warn("push speech result", "err", err)
		}

	case frameEmotion:
		if frame.Emotion == nil {
			return false
		}
		a.metrics.RecordSignal(ctx, frameEmotion)
		sc.pushObservation(vision.Observation{Kind: vision.KindEmotion, Emotion: frame.Emotion})

	case frameBehavior:
		if frame.Behavior == nil {
			return false
		}
		a.metrics.RecordSignal(ctx, frameBehavior)
		sc.pushObservation(vision.Observation{Kind: vision.KindBehavior, Behavior: frame.Behavior})

	case frameDetections:
		a.metrics.RecordSignal(ctx, frameDetections)
		sc.pushObservation(vision.Observation{Kind: vision.KindDetections, Detections: frame.Detections})

	case framePresence:
		if frame.Presence == nil {
			return false
		}
		a.metrics.RecordSignal(ctx, framePresence)
		sc.pushObservation(vision.Observation{Kind: vision.KindPresence, Presence: frame.Presence})

	case frameMute:
		a.ctrl.SetMuted(frame.Muted)

	case frameSubmit:
		select {
		case sc.submitCh <- struct{}{}:
		default:
		}

	case frameVoices:
		a.gateway.SetVoices(frame.Voices)

	case frameSpoken:
		a.gateway.Ack(frame.UtteranceID)

	default:
		sc.log.Warn("unknown signal frame", "type", frame.Type)
	}
	return false
}

// pushObservation forwards one camera observation into the vision relay.
func (sc *signalConn) pushObservation(obs vision.Observation) {
	if err := sc.visionSess.Push(obs); err != nil {
		sc.log.Warn("push observation", "kind", obs.Kind, "err", err)
	}
}

// consumeSpeech drains recognition results from the stt relay, assembles the
// transcript, and submits the candidate's answer either automatically (final
// result above the confidence floor while nobody is speaking) or when the
// client asks via a submit frame.
func (sc *signalConn) consumeSpeech(ctx context.Context) {
	a := sc.api
	for {
		select {
		case <-ctx.Done():
			return

		case res, ok := <-sc.speechSess.Results():
			if !ok {
				return
			}
			// While the interviewer's own speech is playing, recognition
			// picks up the speaker output. Discard those results entirely
			// so the echo never reaches the transcript.
			if a.speaker.Speaking() {
				continue
			}
			if res.IsFinal {
				sc.asm.Final(res.Transcript)
			} else {
				sc.asm.Interim(res.Transcript)
			}
			_ = sc.write(ctx, outbound{
				Type:      frameTranscript,
				Confirmed: sc.asm.Confirmed(),
				Pending:   sc.asm.Pending(),
			})
			if speech.ShouldAutoSubmit(res, a.speaker.Speaking(), a.ctrl.Processing()) {
				sc.submit(ctx, "auto")
			}

		case <-sc.submitCh:
			sc.submit(ctx, "manual")
		}
	}
}

// submit flushes the assembled transcript into the controller. Utterances
// the noise filter rejects are dropped and the assembly kept, so a stray
// "uh" cannot consume a half-finished answer.
func (sc *signalConn) submit(ctx context.Context, source string) {
	a := sc.api
	text := strings.TrimSpace(sc.asm.Pending())
	if text == "" {
		return
	}
	if !sc.filt.Accept(text) {
		sc.log.Debug("transcript rejected by filter", "text", text)
		return
	}
	if err := a.ctrl.Submit(ctx, text); err != nil {
		sc.log.Warn("submit answer", "source", source, "err", err)
		return
	}
	a.metrics.RecordSubmission(ctx, source)
	sc.asm.Reset()
	_ = sc.write(ctx, outbound{Type: frameTranscript})
	sc.forwardState(ctx)
}

// consumeVision drains camera observations from the vision relay into the
// controller and reflects the resulting state back to the client.
func (sc *signalConn) consumeVision(ctx context.Context) {
	a := sc.api
	for {
		select {
		case <-ctx.Done():
			return
		case obs, ok := <-sc.visionSess.Observations():
			if !ok {
				return
			}
			switch obs.Kind {
			case vision.KindEmotion:
				a.ctrl.RecordEmotion(*obs.Emotion)
			case vision.KindBehavior:
				a.ctrl.RecordBehavior(*obs.Behavior)
			case vision.KindDetections:
				a.ctrl.RecordDetections(obs.Detections)
			case vision.KindPresence:
				a.ctrl.RecordPresence(obs.Presence.FaceVisible, obs.Presence.PersonPresent)
			}
			sc.forwardState(ctx)
		}
	}
}

// forwardState pushes scores, any new proctoring warnings, and the end of
// the session to the client.
func (sc *signalConn) forwardState(ctx context.Context) {
	a := sc.api
	snap, ok := a.ctrl.Snapshot()
	if !ok || snap.ID != sc.id {
		return
	}

	sc.stateMu.Lock()
	defer sc.stateMu.Unlock()

	scores := snap.Scores
	_ = sc.write(ctx, outbound{
		Type:   frameScores,
		Scores: &scores,
		Paused: a.ctrl.Paused(),
	})

	for ; sc.warningsSent < len(snap.Warnings); sc.warningsSent++ {
		warn := snap.Warnings[sc.warningsSent]
		a.metrics.ProctorWarnings.Add(ctx, 1)
		_ = sc.write(ctx, outbound{
			Type:    frameWarning,
			Message: warn.Message,
		})
	}

	if snap.Status != store.StatusActive && !sc.endedSent {
		sc.endedSent = true
		// The session may already have been closed over the REST surface;
		// endAccounted keeps the counters from moving twice.
		if a.endAccounted(sc.id) {
			a.metrics.ActiveSessions.Add(ctx, -1)
			a.metrics.RecordSessionEnded(ctx, string(snap.Status))
		}
		_ = sc.write(ctx, outbound{
			Type:   frameEnded,
			Status: snap.Status,
			Reason: snap.TerminationReason,
		})
	}
}
