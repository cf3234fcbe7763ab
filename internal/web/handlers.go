package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/TejasKumarBoddu1/ava/internal/interview"
	"github.com/TejasKumarBoddu1/ava/internal/observe"
	"github.com/TejasKumarBoddu1/ava/internal/speech"
	"github.com/TejasKumarBoddu1/ava/pkg/store"
)

// API serves the session REST surface and the signal websocket.
type API struct {
	ctrl    *interview.Controller
	store   store.Store
	speaker interview.Speaker
	gateway *SpeechGateway
	metrics *observe.Metrics
	log     *slog.Logger

	speechLang string
	filterOpts []speech.FilterOption
	defaultMin int

	// endMu guards ended. A session's end can be observed twice, once
	// through the REST surface and once through a live signal connection;
	// only the first observer adjusts the session counters.
	endMu sync.Mutex
	ended map[string]struct{}
}

// APIOption configures optional behaviour of an [API].
type APIOption func(*API)

// WithSpeechLanguage sets the BCP-47 tag requested for recognition streams.
// Default: "en-US".
func WithSpeechLanguage(lang string) APIOption {
	return func(a *API) {
		if lang != "" {
			a.speechLang = lang
		}
	}
}

// WithFilterOptions tunes the utterance filter applied to each signal
// connection.
func WithFilterOptions(opts ...speech.FilterOption) APIOption {
	return func(a *API) {
		a.filterOpts = opts
	}
}

// WithDefaultDuration sets the interview length, in minutes, applied when a
// setup request names none. Default: 15.
func WithDefaultDuration(minutes int) APIOption {
	return func(a *API) {
		if minutes > 0 {
			a.defaultMin = minutes
		}
	}
}

// NewAPI wires the handlers. The gateway must be the same instance the
// controller's speech manager synthesises through, so speak directives reach
// whichever client is attached.
func NewAPI(ctrl *interview.Controller, st store.Store, speaker interview.Speaker, gw *SpeechGateway, m *observe.Metrics, log *slog.Logger, opts ...APIOption) *API {
	if log == nil {
		log = slog.Default()
	}
	a := &API{
		ctrl:       ctrl,
		store:      st,
		speaker:    speaker,
		gateway:    gw,
		metrics:    m,
		log:        log,
		speechLang: "en-US",
		defaultMin: 15,
		ended:      make(map[string]struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Register adds all API routes to mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", a.startSession)
	mux.HandleFunc("GET /api/sessions", a.listSessions)
	mux.HandleFunc("GET /api/sessions/{id}", a.getSession)
	mux.HandleFunc("POST /api/sessions/{id}/response", a.submitResponse)
	mux.HandleFunc("POST /api/sessions/{id}/complete", a.completeSession)
	mux.HandleFunc("POST /api/sessions/{id}/reset", a.resetSession)
	mux.HandleFunc("GET /api/sessions/{id}/analysis", a.getAnalysis)
	mux.HandleFunc("GET /api/sessions/{id}/export", a.exportSession)
	mux.HandleFunc("GET /ws/sessions/{id}", a.signalSocket)
}

// ─── Session lifecycle ───────────────────────────────────────────────────────

// startRequest is the setup payload for a new interview.
type startRequest struct {
	CandidateName   string `json:"candidateName"`
	JobTitle        string `json:"jobTitle"`
	DurationMinutes int    `json:"duration"`
	Backend         string `json:"aiBackend"`
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = a.defaultMin
	}

	sess, err := a.ctrl.Start(r.Context(), interview.StartParams{
		CandidateName:   req.CandidateName,
		JobTitle:        req.JobTitle,
		DurationMinutes: req.DurationMinutes,
		Backend:         req.Backend,
	})
	if err != nil {
		a.writeControllerError(w, err)
		return
	}

	a.endMu.Lock()
	clear(a.ended)
	a.endMu.Unlock()
	a.metrics.SessionsStarted.Add(r.Context(), 1)
	a.metrics.ActiveSessions.Add(r.Context(), 1)
	writeJSON(w, http.StatusCreated, sess)
}

func (a *API) listSessions(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOpts{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.SessionStatus(s)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown status "+s)
			return
		}
		opts.Status = status
	}

	sessions, err := a.store.ListSessions(r.Context(), opts)
	if err != nil {
		a.log.Error("list sessions", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (a *API) submitResponse(w http.ResponseWriter, r *http.Request) {
	if !a.requireActive(w, r) {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := a.ctrl.Submit(r.Context(), req.Text); err != nil {
		a.writeControllerError(w, err)
		return
	}
	a.metrics.RecordSubmission(r.Context(), "manual")

	sess, _ := a.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, sess)
}

func (a *API) completeSession(w http.ResponseWriter, r *http.Request) {
	if !a.requireActive(w, r) {
		return
	}
	if err := a.ctrl.Complete(r.Context()); err != nil {
		a.writeControllerError(w, err)
		return
	}
	if a.endAccounted(r.PathValue("id")) {
		a.metrics.ActiveSessions.Add(r.Context(), -1)
		a.metrics.RecordSessionEnded(r.Context(), string(store.StatusCompleted))
	}

	sess, _ := a.ctrl.Snapshot()
	writeJSON(w, http.StatusOK, sess)
}

func (a *API) resetSession(w http.ResponseWriter, r *http.Request) {
	snap, active := a.ctrl.Snapshot()
	if active && snap.ID == r.PathValue("id") && snap.Status == store.StatusActive && a.endAccounted(snap.ID) {
		a.metrics.ActiveSessions.Add(r.Context(), -1)
	}
	if err := a.ctrl.Reset(r.Context()); err != nil {
		a.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ─── Analysis and export ─────────────────────────────────────────────────────

func (a *API) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	stored, err := a.store.GetAnalysis(r.Context(), id)
	if err != nil {
		a.log.Error("get analysis", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if stored != nil {
		writeJSON(w, http.StatusOK, stored)
		return
	}

	sess, ok := a.lookupSession(w, r)
	if !ok {
		return
	}

	analysis, persist := a.analyze(r.Context(), sess)
	if persist {
		if err := a.store.PutAnalysis(r.Context(), analysis); err != nil {
			a.log.Warn("persist analysis", "session_id", id, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (a *API) exportSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sess, ok := a.lookupSession(w, r)
	if !ok {
		return
	}

	var analysis store.Analysis
	if stored, err := a.store.GetAnalysis(r.Context(), id); err != nil {
		a.log.Error("get analysis", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	} else if stored != nil {
		analysis = *stored
	} else {
		analysis, _ = a.analyze(r.Context(), sess)
	}

	data, err := interview.MarshalExport(sess, analysis)
	if err != nil {
		a.log.Error("marshal export", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+interview.ExportFilename(id)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// analyze runs report generation for sess, recording latency. The second
// return reports whether the result belongs in the store (demo sessions are
// synthesised on the fly and never persisted).
func (a *API) analyze(ctx context.Context, sess store.Session) (store.Analysis, bool) {
	started := time.Now()
	analysis := interview.Analyze(sess)
	a.metrics.AnalysisDuration.Record(ctx, time.Since(started).Seconds())
	return analysis, sess.ID != interview.DemoSession().ID
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// endAccounted marks session id as ended for metric accounting and reports
// whether this caller is the first to observe it.
func (a *API) endAccounted(id string) bool {
	a.endMu.Lock()
	defer a.endMu.Unlock()
	if _, done := a.ended[id]; done {
		return false
	}
	a.ended[id] = struct{}{}
	return true
}

// lookupSession resolves {id} against the store, falling back to the live
// snapshot for the active session and to the built-in demo record. Writes a
// 404 and returns ok=false when nothing matches.
func (a *API) lookupSession(w http.ResponseWriter, r *http.Request) (store.Session, bool) {
	id := r.PathValue("id")

	sess, err := a.store.GetSession(r.Context(), id)
	if err != nil {
		a.log.Error("get session", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return store.Session{}, false
	}
	if sess != nil {
		return *sess, true
	}

	if snap, ok := a.ctrl.Snapshot(); ok && snap.ID == id {
		return snap, true
	}

	if demo := interview.DemoSession(); demo.ID == id {
		return demo, true
	}

	writeError(w, http.StatusNotFound, "session "+id+" not found")
	return store.Session{}, false
}

// requireActive verifies {id} names the live session. Mutating operations
// only apply to the session the controller currently owns.
func (a *API) requireActive(w http.ResponseWriter, r *http.Request) bool {
	id := r.PathValue("id")
	snap, ok := a.ctrl.Snapshot()
	if !ok || snap.ID != id {
		writeError(w, http.StatusNotFound, "no active session "+id)
		return false
	}
	return true
}

func (a *API) writeControllerError(w http.ResponseWriter, err error) {
	var setupErr *interview.SetupError
	switch {
	case errors.As(err, &setupErr):
		writeError(w, http.StatusBadRequest, setupErr.Error())
	case errors.Is(err, interview.ErrSessionActive),
		errors.Is(err, interview.ErrProcessing):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, interview.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, interview.ErrEmptyResponse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.log.Error("controller error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
