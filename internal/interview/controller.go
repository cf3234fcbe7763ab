// Package interview implements the session controller: a state machine that
// drives a mock interview from setup through questioning to a final report.
// It coordinates the countdown timer, turn-taking with the language model,
// live performance scoring, and proctoring, and persists session snapshots
// to the interview store as they evolve.
//
// Transitions follow a closed set of event kinds (see [EventKind]); every
// mutation of the active session happens under one mutex with the session's
// epoch checked first, so callbacks from timers and finished model calls can
// never touch a session that has since been completed or reset.
package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TejasKumarBoddu1/ava/internal/observe"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/llm"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// forceCompleteWindow is the remaining time below which a submission ends
// the interview instead of requesting another question, so the session
// always closes with a farewell rather than an abrupt cutoff.
const forceCompleteWindow = 60 * time.Second

// persistTimeout bounds every store write made by the controller.
const persistTimeout = 5 * time.Second

// Supported language-model backend selectors.
var validBackends = map[string]struct{}{
	"gemini":  {},
	"chatgpt": {},
	"grok":    {},
}

// Speaker is the slice of the speech layer the controller needs: queue an
// utterance and know whether one is playing. *speech.Manager satisfies it.
type Speaker interface {
	Speak(ctx context.Context, req tts.Request) error
	Speaking() bool
}

// StartParams are the setup inputs for a new session.
type StartParams struct {
	CandidateName   string
	JobTitle        string
	DurationMinutes int
	Backend         string
}

// Controller owns at most one live session at a time.
//
// All exported methods are safe for concurrent use.
type Controller struct {
	store   store.Store
	llm     llm.Provider
	speaker Speaker
	log     *slog.Logger
	metrics *observe.Metrics

	now   func() time.Time
	newID func() string

	mu         sync.Mutex
	epoch      uint64
	session    *store.Session
	remaining  time.Duration
	processing bool
	waiting    bool
	paused     bool
	muted      bool

	scorer  *Scorer
	proctor *Proctor

	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	tickTimer  *time.Timer
	decayTimer *time.Timer
	pauseTimer *time.Timer
}

// ControllerOption configures a [Controller] during construction.
type ControllerOption func(*Controller)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// WithMetrics sets the instruments recorded around language-model calls.
// Default: none.
func WithMetrics(m *observe.Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithControllerClock overrides the time source, for tests.
func WithControllerClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator overrides session and message ID generation, for tests.
func WithIDGenerator(newID func() string) ControllerOption {
	return func(c *Controller) {
		c.newID = newID
	}
}

// NewController returns a Controller in the setup state.
func NewController(st store.Store, model llm.Provider, speaker Speaker, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:   st,
		llm:     model,
		speaker: speaker,
		log:     slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		scorer:  NewScorer(),
		proctor: NewProctor(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

// Start validates the setup parameters, creates the session, and kicks off
// the countdown and the interviewer's opening turn. The opening message
// arrives asynchronously once the language model responds; callers observe
// it through Snapshot.
func (c *Controller) Start(ctx context.Context, p StartParams) (store.Session, error) {
	p.CandidateName = strings.TrimSpace(p.CandidateName)
	p.JobTitle = strings.TrimSpace(p.JobTitle)
	if p.CandidateName == "" {
		return store.Session{}, &SetupError{Field: "candidateName", Reason: "must not be empty"}
	}
	if p.JobTitle == "" {
		return store.Session{}, &SetupError{Field: "jobTitle", Reason: "must not be empty"}
	}
	if p.DurationMinutes <= 0 {
		return store.Session{}, &SetupError{Field: "duration", Reason: "must be positive"}
	}
	if _, ok := validBackends[p.Backend]; !ok {
		return store.Session{}, &SetupError{Field: "aiBackend", Reason: fmt.Sprintf("unknown backend %q", p.Backend)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.Status == store.StatusActive {
		return store.Session{}, ErrSessionActive
	}

	epoch := c.bumpEpochLocked()
	c.scorer.Reset()
	c.proctor.Reset()
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())

	s := store.Session{
		ID:              c.newID(),
		CandidateName:   p.CandidateName,
		JobTitle:        p.JobTitle,
		DurationMinutes: p.DurationMinutes,
		Backend:         p.Backend,
		Status:          store.StatusActive,
		StartedAt:       c.now(),
		Scores:          c.scorer.Scores(),
	}
	c.session = &s
	c.remaining = time.Duration(p.DurationMinutes) * time.Minute
	c.waiting = false
	c.paused = false
	c.processing = true

	if err := c.persistLocked(); err != nil {
		c.session = nil
		c.sessionCancel()
		return store.Session{}, err
	}

	c.log.Info("session started",
		"event", EventStartSession.String(),
		"session_id", s.ID,
		"job_title", s.JobTitle,
		"duration_minutes", s.DurationMinutes,
		"backend", s.Backend)

	c.scheduleTickLocked(epoch)
	go c.requestTurn(epoch, OpeningPrompt(s))

	return s, nil
}

// Submit records the candidate's answer and requests the next interviewer
// turn, or completes the interview when too little time remains for another
// full exchange.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return ErrNoActiveSession
	}
	if c.processing {
		return ErrProcessing
	}

	c.appendMessageLocked(store.RoleCandidate, text)
	c.waiting = false
	c.stopDecayLocked()
	c.log.Info("response submitted",
		"event", EventSubmit.String(),
		"session_id", c.session.ID,
		"length", len(text))

	if c.remaining < forceCompleteWindow {
		c.completeLocked()
		return nil
	}

	c.processing = true
	prompt := FollowUpPrompt(*c.session, c.remaining)
	if err := c.persistLocked(); err != nil {
		return err
	}
	go c.requestTurn(c.epoch, prompt)
	return nil
}

// Complete ends the session normally, as if the countdown had expired.
func (c *Controller) Complete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return ErrNoActiveSession
	}
	c.completeLocked()
	return nil
}

// Reset discards all transient state and returns the controller to setup.
// An abandoned active session is removed from the store; completed and
// terminated sessions stay.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bumpEpochLocked()
	var abandoned string
	if c.session != nil && c.session.Status == store.StatusActive {
		abandoned = c.session.ID
	}
	c.session = nil
	c.remaining = 0
	c.processing = false
	c.waiting = false
	c.paused = false
	c.scorer.Reset()
	c.proctor.Reset()

	if abandoned != "" {
		pctx, cancel := context.WithTimeout(ctx, persistTimeout)
		defer cancel()
		if err := c.store.DeleteSession(pctx, abandoned); err != nil {
			return fmt.Errorf("interview: reset: %w", err)
		}
	}
	c.log.Info("session reset", "event", EventReset.String(), "abandoned", abandoned != "")
	return nil
}

// SetMuted toggles interviewer speech output.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

// ─── Signal intake ───────────────────────────────────────────────────────────

// RecordEmotion folds a facial-expression snapshot into the live session.
func (c *Controller) RecordEmotion(e store.EmotionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = c.now()
	}
	c.session.Emotions = append(c.session.Emotions, e)
	c.session.Scores = c.scorer.ApplyEmotion(e)
	if err := c.persistLocked(); err != nil {
		c.log.Warn("persist after emotion failed", "error", err)
	}
}

// RecordBehavior folds a body-language snapshot into the live session.
func (c *Controller) RecordBehavior(b store.BehaviorSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = c.now()
	}
	c.session.Behavior = append(c.session.Behavior, b)
	c.session.Scores = c.scorer.ApplyBehavior(b)
	if err := c.persistLocked(); err != nil {
		c.log.Warn("persist after behavior failed", "error", err)
	}
}

// RecordDetections folds one frame of object detections into the live
// session and advances the proctoring counters, issuing warnings or
// terminating as the strike policies dictate.
func (c *Controller) RecordDetections(frame []store.Detection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return
	}
	for _, d := range frame {
		if d.Timestamp.IsZero() {
			d.Timestamp = c.now()
		}
		c.session.Detections = append(c.session.Detections, d)
	}
	c.applyOutcomeLocked(c.proctor.ObserveDetections(frame))
}

// RecordPresence feeds face and person visibility flags to the proctor.
func (c *Controller) RecordPresence(faceVisible, personPresent bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return
	}
	out := c.proctor.ObserveFace(faceVisible)
	out = out.merge(c.proctor.ObservePerson(personPresent))
	c.applyOutcomeLocked(out)
}

// ─── Read side ───────────────────────────────────────────────────────────────

// Snapshot returns a copy of the current session, or false when the
// controller is in setup.
func (c *Controller) Snapshot() (store.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return store.Session{}, false
	}
	return *c.session, true
}

// Remaining returns the countdown state.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Processing reports whether a submission is waiting on the language model.
func (c *Controller) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// Paused reports whether the advisory post-warning pause is in effect.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Violations returns the proctoring counters.
func (c *Controller) Violations() ViolationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proctor.State()
}

// ─── Internals ───────────────────────────────────────────────────────────────

// requestTurn calls the language model off the controller goroutine and
// delivers the reply back under the epoch guard.
func (c *Controller) requestTurn(epoch uint64, prompt string) {
	c.mu.Lock()
	ctx := c.sessionCtx
	var backend string
	if c.session != nil {
		backend = c.session.Backend
	}
	c.mu.Unlock()
	if ctx == nil {
		return
	}

	started := time.Now()
	resp, err := c.llm.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if c.metrics != nil {
		c.metrics.LLMDuration.Record(ctx, time.Since(started).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
			c.metrics.RecordProviderError(ctx, backend)
		}
		c.metrics.RecordProviderRequest(ctx, backend, status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || !c.activeLocked() {
		return
	}
	c.processing = false
	if err != nil {
		// The turn is not retried automatically; the candidate may resubmit.
		c.log.Error("language model call failed",
			"session_id", c.session.ID,
			"backend", c.session.Backend,
			"error", err)
		return
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		c.log.Warn("language model returned empty reply", "session_id", c.session.ID)
		return
	}

	c.appendMessageLocked(store.RoleHR, text)
	c.session.QuestionCount++
	c.waiting = true
	c.scheduleDecayLocked(c.epoch, decayInitialWait)
	if err := c.persistLocked(); err != nil {
		c.log.Warn("persist after interviewer reply failed", "error", err)
	}
	c.log.Info("interviewer reply delivered",
		"event", EventInterviewerReply.String(),
		"session_id", c.session.ID,
		"question_count", c.session.QuestionCount)
	c.speakLocked(text)
}

func (c *Controller) applyOutcomeLocked(out Outcome) {
	for _, n := range out.Notices {
		c.session.Warnings = append(c.session.Warnings, store.Warning{
			Kind:     n.Kind,
			Message:  n.Message,
			IssuedAt: c.now(),
		})
		c.appendMessageLocked(store.RoleSystem, n.Message)
		c.log.Warn("proctoring warning",
			"event", EventRecordDetections.String(),
			"session_id", c.session.ID,
			"kind", n.Kind,
			"final", n.Final)
		c.speakLocked(n.Message)
		c.pauseLocked()
	}
	if out.Terminate {
		c.terminateLocked(out.Reason)
		return
	}
	if len(out.Notices) > 0 {
		if err := c.persistLocked(); err != nil {
			c.log.Warn("persist after warning failed", "error", err)
		}
	}
}

func (c *Controller) completeLocked() {
	closing := ClosingMessage(c.session.CandidateName)
	c.appendMessageLocked(store.RoleHR, closing)
	c.session.Status = store.StatusCompleted
	c.session.EndedAt = c.now()
	c.stopTimersLocked()
	c.waiting = false
	c.processing = false
	if err := c.persistLocked(); err != nil {
		c.log.Error("persist on completion failed", "session_id", c.session.ID, "error", err)
	}
	c.log.Info("session completed",
		"event", EventComplete.String(),
		"session_id", c.session.ID,
		"questions", c.session.QuestionCount)
	c.speakLocked(closing)
}

func (c *Controller) terminateLocked(reason string) {
	c.appendMessageLocked(store.RoleSystem, "Interview terminated: "+reason)
	c.session.Status = store.StatusTerminated
	c.session.TerminationReason = reason
	c.session.EndedAt = c.now()
	c.stopTimersLocked()
	c.waiting = false
	c.processing = false
	if err := c.persistLocked(); err != nil {
		c.log.Error("persist on termination failed", "session_id", c.session.ID, "error", err)
	}
	c.log.Warn("session terminated",
		"event", EventTerminate.String(),
		"session_id", c.session.ID,
		"reason", reason)
	// Cancelling the session context also cuts off any utterance mid-play.
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
}

func (c *Controller) appendMessageLocked(role store.MessageRole, content string) {
	c.session.Messages = append(c.session.Messages, store.ChatMessage{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	})
}

func (c *Controller) speakLocked(text string) {
	if c.muted || c.speaker == nil {
		return
	}
	ctx := c.sessionCtx
	go func() {
		if err := c.speaker.Speak(ctx, tts.Request{Text: text}); err != nil && ctx.Err() == nil {
			c.log.Warn("speech playback failed", "error", err)
		}
	}()
}

func (c *Controller) persistLocked() error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.PutSession(ctx, *c.session); err != nil {
		return fmt.Errorf("interview: persist session: %w", err)
	}
	return nil
}

func (c *Controller) activeLocked() bool {
	return c.session != nil && c.session.Status == store.StatusActive
}

// bumpEpochLocked invalidates every outstanding timer and in-flight model
// call, then tears the timers down.
func (c *Controller) bumpEpochLocked() uint64 {
	c.epoch++
	c.stopTimersLocked()
	if c.sessionCancel != nil {
		c.sessionCancel()
		c.sessionCtx, c.sessionCancel = nil, nil
	}
	return c.epoch
}

func (c *Controller) stopTimersLocked() {
	if c.tickTimer != nil {
		c.tickTimer.Stop()
		c.tickTimer = nil
	}
	c.stopDecayLocked()
	if c.pauseTimer != nil {
		c.pauseTimer.Stop()
		c.pauseTimer = nil
	}
}

func (c *Controller) stopDecayLocked() {
	if c.decayTimer != nil {
		c.decayTimer.Stop()
		c.decayTimer = nil
	}
}

// ─── Timers ──────────────────────────────────────────────────────────────────

func (c *Controller) scheduleTickLocked(epoch uint64) {
	c.tickTimer = time.AfterFunc(time.Second, func() { c.onTick(epoch) })
}

func (c *Controller) onTick(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || !c.activeLocked() {
		return
	}
	c.remaining -= time.Second
	if c.remaining <= 0 {
		c.remaining = 0
		c.completeLocked()
		return
	}
	c.scheduleTickLocked(epoch)
}

func (c *Controller) scheduleDecayLocked(epoch uint64, wait time.Duration) {
	c.stopDecayLocked()
	c.decayTimer = time.AfterFunc(wait, func() { c.onResponseTimeout(epoch) })
}

func (c *Controller) onResponseTimeout(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || !c.activeLocked() || !c.waiting || c.processing {
		return
	}
	c.session.Scores = c.scorer.ApplyDecay()
	if err := c.persistLocked(); err != nil {
		c.log.Warn("persist after decay failed", "error", err)
	}
	c.log.Info("no-response decay applied",
		"event", EventResponseTimeout.String(),
		"session_id", c.session.ID,
		"scores", c.session.Scores)
	c.scheduleDecayLocked(epoch, decayRepeat)
}

// pauseLocked sets the advisory pause flag and arms its auto-clear. A new
// warning while paused restarts the clock, so at most one pause is ever
// outstanding.
func (c *Controller) pauseLocked() {
	c.paused = true
	if c.pauseTimer != nil {
		c.pauseTimer.Stop()
	}
	epoch := c.epoch
	c.pauseTimer = time.AfterFunc(warningPause, func() { c.onWarningClear(epoch) })
}

func (c *Controller) onWarningClear(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.paused = false
}
