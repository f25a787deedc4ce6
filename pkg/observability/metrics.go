package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "folio"

// Metrics bundles the collectors shared by the transport and the stream channel.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	streamsOpened   *prometheus.CounterVec
	streamChunks    *prometheus.CounterVec
	streamsEnded    *prometheus.CounterVec
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = ns
	}
}

// WithBuckets sets the request duration histogram buckets (seconds).
// Generation actions can take minutes, hence the wide default.
func WithBuckets(b []float64) MetricsOption {
	return func(c *metricsConfig) {
		c.buckets = b
	}
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered (handy in tests).
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) (*Metrics, error) {
	cfg := metricsConfig{
		namespace: DefaultNamespace,
		buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "requests_total",
				Help:      "Total number of requests sent to the content service",
			},
			[]string{"resource", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of requests sent to the content service",
				Buckets:   cfg.buckets,
			},
			[]string{"resource", "method"},
		),
		streamsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "streams_opened_total",
				Help:      "Total number of generation streams opened",
			},
			[]string{"kind"},
		),
		streamChunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "stream_chunks_total",
				Help:      "Total number of chunks received over generation streams",
			},
			[]string{"kind"},
		),
		streamsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "streams_ended_total",
				Help:      "Generation streams by terminal state",
			},
			[]string{"kind", "state"},
		),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.requestDuration, m.streamsOpened, m.streamChunks, m.streamsEnded}
}

// ObserveRequest records one finished request. status 0 means no response (transport failure).
func (m *Metrics) ObserveRequest(resource, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, method, StatusClass(status)).Inc()
	m.requestDuration.WithLabelValues(resource, method).Observe(d.Seconds())
}

// StreamOpened counts a new generation stream of the given kind (generate, chat).
func (m *Metrics) StreamOpened(kind string) {
	if m == nil {
		return
	}
	m.streamsOpened.WithLabelValues(kind).Inc()
}

// StreamChunk counts one delivered chunk.
func (m *Metrics) StreamChunk(kind string) {
	if m == nil {
		return
	}
	m.streamChunks.WithLabelValues(kind).Inc()
}

// StreamEnded counts a stream reaching a terminal state.
func (m *Metrics) StreamEnded(kind, state string) {
	if m == nil {
		return
	}
	m.streamsEnded.WithLabelValues(kind, state).Inc()
}

// Requests exposes the request counter, mostly for tests.
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

// StreamsEnded exposes the terminal state counter, mostly for tests.
func (m *Metrics) StreamsEnded() *prometheus.CounterVec { return m.streamsEnded }

// StreamChunks exposes the chunk counter, mostly for tests.
func (m *Metrics) StreamChunks() *prometheus.CounterVec { return m.streamChunks }

// StatusClass folds an HTTP status into 2xx/3xx/4xx/5xx, or "error" when there was no response.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return fmt.Sprintf("%dxx", status/100)
}
