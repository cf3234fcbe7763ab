// Package observe provides application-wide observability primitives for
// Ava: OpenTelemetry metrics, distributed tracing, structured logging, and
// HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Ava metrics.
const meterName = "github.com/TejasKumarBoddu1/ava"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// LLMDuration tracks interviewer-turn generation latency.
	LLMDuration metric.Float64Histogram

	// SpeechDuration tracks utterance playback time from queue to finish.
	SpeechDuration metric.Float64Histogram

	// AnalysisDuration tracks post-interview report generation latency.
	AnalysisDuration metric.Float64Histogram

	// --- Counters ---

	// SessionsStarted counts interview sessions started.
	SessionsStarted metric.Int64Counter

	// SessionsEnded counts interview sessions ended. Use with attribute:
	//   attribute.String("status", ...) — "completed" or "terminated"
	SessionsEnded metric.Int64Counter

	// Submissions counts candidate answers submitted. Use with attribute:
	//   attribute.String("source", ...) — "auto" or "manual"
	Submissions metric.Int64Counter

	// Signals counts camera and microphone signals ingested. Use with
	// attribute: attribute.String("kind", ...)
	Signals metric.Int64Counter

	// ProctorWarnings counts proctoring warnings issued. Use with attribute:
	//   attribute.String("kind", ...)
	ProctorWarnings metric.Int64Counter

	// ProviderRequests counts language-model API requests. Use with attributes:
	//   attribute.String("backend", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts language-model errors by backend.
	ProviderErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live interview sessions.
	ActiveSessions metric.Int64UpDownCounter

	// ConnectedClients tracks the number of open signal websockets.
	ConnectedClients metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// model round-trips and speech playback.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.LLMDuration, err = m.Float64Histogram("ava.llm.duration",
		metric.WithDescription("Latency of interviewer-turn generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SpeechDuration, err = m.Float64Histogram("ava.speech.duration",
		metric.WithDescription("Utterance playback time from queue to finish."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("ava.analysis.duration",
		metric.WithDescription("Latency of post-interview report generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.SessionsStarted, err = m.Int64Counter("ava.sessions.started",
		metric.WithDescription("Total interview sessions started."),
	); err != nil {
		return nil, err
	}
	if met.SessionsEnded, err = m.Int64Counter("ava.sessions.ended",
		metric.WithDescription("Total interview sessions ended by status."),
	); err != nil {
		return nil, err
	}
	if met.Submissions, err = m.Int64Counter("ava.submissions",
		metric.WithDescription("Total candidate answers submitted by source."),
	); err != nil {
		return nil, err
	}
	if met.Signals, err = m.Int64Counter("ava.signals",
		metric.WithDescription("Total camera and microphone signals ingested by kind."),
	); err != nil {
		return nil, err
	}
	if met.ProctorWarnings, err = m.Int64Counter("ava.proctor.warnings",
		metric.WithDescription("Total proctoring warnings issued by kind."),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("ava.provider.requests",
		metric.WithDescription("Total language-model API requests by backend and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("ava.provider.errors",
		metric.WithDescription("Total language-model errors by backend."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("ava.active_sessions",
		metric.WithDescription("Number of live interview sessions."),
	); err != nil {
		return nil, err
	}
	if met.ConnectedClients, err = m.Int64UpDownCounter("ava.connected_clients",
		metric.WithDescription("Number of open signal websockets."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("ava.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: creating default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordProviderRequest is a convenience method that records a language-model
// request counter increment with the standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, backend, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("backend", backend),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError is a convenience method that records a language-model
// error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, backend string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("backend", backend)),
	)
}

// RecordSubmission is a convenience method that records a candidate answer
// submission by source ("auto" or "manual").
func (m *Metrics) RecordSubmission(ctx context.Context, source string) {
	m.Submissions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", source)),
	)
}

// RecordSignal is a convenience method that records a signal intake counter
// increment.
func (m *Metrics) RecordSignal(ctx context.Context, kind string) {
	m.Signals.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// RecordSessionEnded is a convenience method that records a session end by
// final status.
func (m *Metrics) RecordSessionEnded(ctx context.Context, status string) {
	m.SessionsEnded.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
