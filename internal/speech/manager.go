package speech

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TejasKumarBoddu1/ava/internal/observe"
	"github.com/TejasKumarBoddu1/ava/pkg/provider/tts"
)

// ResumeMode controls how the microphone comes back after the interviewer
// finishes speaking.
type ResumeMode string

const (
	// ResumeAuto re-enables capture automatically a few seconds after the
	// last queued utterance finishes.
	ResumeAuto ResumeMode = "auto"
	// ResumeManual leaves capture off until the candidate turns it back on.
	ResumeManual ResumeMode = "manual"
)

// IsValid reports whether m is a known resume mode.
func (m ResumeMode) IsValid() bool {
	return m == ResumeAuto || m == ResumeManual
}

// defaultResumeDelay is the pause between the interviewer finishing and
// capture resuming in ResumeAuto mode, long enough for speaker echo to die
// down before the microphone opens.
const defaultResumeDelay = 3 * time.Second

// speakQueueSize bounds how many utterances may wait for playback. The
// interviewer speaks one question and at most a couple of warnings at a time.
const speakQueueSize = 16

// Manager serializes interviewer speech. Utterances are queued and played
// one at a time in FIFO order; while any utterance is playing or queued,
// Speaking reports true so transcript events from the candidate's microphone
// can be discarded rather than transcribing the interviewer's own voice.
//
// Manager is safe for concurrent use.
type Manager struct {
	tts         tts.Provider
	resumeMode  ResumeMode
	resumeDelay time.Duration
	onResume    func()
	metrics     *observe.Metrics

	queue    chan speakItem
	speaking atomic.Int64

	mu          sync.Mutex
	resumeTimer *time.Timer
}

type speakItem struct {
	ctx  context.Context
	req  tts.Request
	done chan error
}

// ManagerOption is a functional option for configuring a [Manager].
type ManagerOption func(*Manager)

// WithResumeMode sets how capture resumes after speech. Default: ResumeAuto.
func WithResumeMode(m ResumeMode) ManagerOption {
	return func(mg *Manager) {
		mg.resumeMode = m
	}
}

// WithResumeDelay sets the delay before automatic capture resume.
// Default: 3 seconds. Ignored in ResumeManual mode.
func WithResumeDelay(d time.Duration) ManagerOption {
	return func(mg *Manager) {
		mg.resumeDelay = d
	}
}

// WithOnResume sets the callback invoked when capture should resume. The
// callback runs on the manager's playback goroutine and must not block.
func WithOnResume(fn func()) ManagerOption {
	return func(mg *Manager) {
		mg.onResume = fn
	}
}

// WithMetrics sets the instruments recorded around utterance playback.
// Default: none.
func WithMetrics(m *observe.Metrics) ManagerOption {
	return func(mg *Manager) {
		mg.metrics = m
	}
}

// NewManager returns a new [Manager] speaking through p. Call Run to start
// the playback loop.
func NewManager(p tts.Provider, opts ...ManagerOption) *Manager {
	m := &Manager{
		tts:         p,
		resumeMode:  ResumeAuto,
		resumeDelay: defaultResumeDelay,
		queue:       make(chan speakItem, speakQueueSize),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Run drains the utterance queue until ctx is cancelled. It returns ctx.Err()
// on shutdown, failing any utterances still waiting in the queue.
func (m *Manager) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.cancelResume()
			m.failPending(ctx.Err())
			return ctx.Err()
		case item := <-m.queue:
			m.play(item)
			if len(m.queue) == 0 {
				m.scheduleResume()
			}
		}
	}
}

func (m *Manager) play(item speakItem) {
	m.cancelResume()
	if err := item.ctx.Err(); err != nil {
		m.speaking.Add(-1)
		item.done <- err
		return
	}
	started := time.Now()
	err := m.tts.Speak(item.ctx, item.req)
	if m.metrics != nil {
		m.metrics.SpeechDuration.Record(item.ctx, time.Since(started).Seconds())
	}
	if err != nil {
		err = fmt.Errorf("speech manager: speak: %w", err)
	}
	m.speaking.Add(-1)
	item.done <- err
}

func (m *Manager) failPending(err error) {
	for {
		select {
		case item := <-m.queue:
			m.speaking.Add(-1)
			item.done <- err
		default:
			return
		}
	}
}

// Speak queues text for playback and blocks until the utterance has finished
// playing, the queue rejects it, or ctx is cancelled. Utterances queued
// concurrently play in arrival order.
func (m *Manager) Speak(ctx context.Context, req tts.Request) error {
	if req.Text == "" {
		return fmt.Errorf("speech manager: empty utterance")
	}
	item := speakItem{ctx: ctx, req: req, done: make(chan error, 1)}
	m.speaking.Add(1)
	select {
	case m.queue <- item:
	default:
		m.speaking.Add(-1)
		return fmt.Errorf("speech manager: queue full")
	}
	select {
	case err := <-item.done:
		return err
	case <-ctx.Done():
		// The playback loop still owns the item; the buffered done channel
		// lets it finish without leaking.
		return ctx.Err()
	}
}

// Speaking reports whether any utterance is playing or waiting to play.
func (m *Manager) Speaking() bool {
	return m.speaking.Load() > 0
}

func (m *Manager) scheduleResume() {
	if m.resumeMode != ResumeAuto || m.onResume == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resumeTimer != nil {
		m.resumeTimer.Stop()
	}
	m.resumeTimer = time.AfterFunc(m.resumeDelay, func() {
		if !m.Speaking() {
			m.onResume()
		}
	})
}

func (m *Manager) cancelResume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resumeTimer != nil {
		m.resumeTimer.Stop()
		m.resumeTimer = nil
	}
}
