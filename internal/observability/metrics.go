package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so tests can build as many instances as they like.
// Every method is safe on a nil receiver, which is what callers get when metrics are off.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	builds         *prometheus.CounterVec
	buildLatency   *prometheus.HistogramVec
	graphNodes     prometheus.Histogram
	graphDepth     prometheus.Histogram
	buildWarnings  prometheus.Counter
	sidebarResults *prometheus.CounterVec

	cacheOps  *prometheus.CounterVec
	exportOps *prometheus.CounterVec

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init creates the process-wide instance once. It returns nil when metrics are disabled.
func Init(namespace string, enabled bool) *Metrics {
	initOnce.Do(func() {
		if !enabled {
			return
		}
		instance = New(namespace)
	})
	return instance
}

func Current() *Metrics {
	return instance
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mindmap"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help: "HTTP request latency.", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "graph_builds_total",
			Help: "Graph builds by source (generate, ingest, preview, cli) and outcome.",
		}, []string{"source", "outcome"}),
		buildLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "graph_build_duration_seconds",
			Help:    "Time spent turning a raw mind map into a canonical graph.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"source"}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "graph_nodes",
			Help:    "Nodes per built graph.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		graphDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "graph_depth",
			Help:    "Deepest level per built graph.",
			Buckets: prometheus.LinearBuckets(0, 1, 8),
		}),
		buildWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "graph_build_warnings_total",
			Help: "Warnings raised while distributing legacy subtopic lists.",
		}),
		sidebarResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sidebar_reconstructions_total",
			Help: "Sidebar reconstructions by outcome (topics, empty).",
		}, []string{"outcome"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "graph_cache_operations_total",
			Help: "Graph cache operations by op and result.",
		}, []string{"op", "result"}),
		exportOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "graph_exports_total",
			Help: "Graph exports by sink and outcome.",
		}, []string{"sink", "outcome"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_requests_total",
			Help: "Model requests by model and status.",
		}, []string{"model", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "llm_request_duration_seconds",
			Help:    "Model request latency including retries.",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_tokens_total",
			Help: "Model tokens by model and direction.",
		}, []string{"model", "direction"}),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpLatency, m.httpInflight,
		m.builds, m.buildLatency, m.graphNodes, m.graphDepth, m.buildWarnings, m.sidebarResults,
		m.cacheOps, m.exportOps,
		m.llmRequests, m.llmLatency, m.llmTokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.httpInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.httpInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveBuild records one builder run. nodes and depth are ignored for pass-through
// and failed builds.
func (m *Metrics) ObserveBuild(source, outcome string, d time.Duration, nodes, depth, warnings int) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(source, outcome).Inc()
	m.buildLatency.WithLabelValues(source).Observe(d.Seconds())
	if outcome == "built" {
		m.graphNodes.Observe(float64(nodes))
		m.graphDepth.Observe(float64(depth))
	}
	if warnings > 0 {
		m.buildWarnings.Add(float64(warnings))
	}
}

func (m *Metrics) ObserveSidebar(topics int) {
	if m == nil {
		return
	}
	outcome := "topics"
	if topics == 0 {
		outcome = "empty"
	}
	m.sidebarResults.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCache(op, result string) {
	if m != nil {
		m.cacheOps.WithLabelValues(op, result).Inc()
	}
}

func (m *Metrics) ObserveExport(sink, outcome string) {
	if m != nil {
		m.exportOps.WithLabelValues(sink, outcome).Inc()
	}
}

func (m *Metrics) ObserveLLMRequest(model, status string, d time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	if model == "" {
		model = "unknown"
	}
	m.llmRequests.WithLabelValues(model, status).Inc()
	m.llmLatency.WithLabelValues(model).Observe(d.Seconds())
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}
