package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the run and preview metrics.
type Registry struct {
	// Run metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	RunSections     prometheus.Gauge
	RunDocuments    prometheus.Gauge
	RunExtras       prometheus.Gauge
	ListingDegraded prometheus.Gauge

	// Fetch metrics
	DocumentsFetchedTotal *prometheus.CounterVec
	FetchDuration         prometheus.Histogram

	// Preview metrics
	PreviewRequestsTotal   *prometheus.CounterVec
	PreviewRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Registry{
		registry: reg,

		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roadmapdocs_runs_total",
			Help: "Completed runs by outcome",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadmapdocs_run_duration_seconds",
			Help:    "Wall time of a run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		RunSections: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadmapdocs_run_sections",
			Help: "Sections written by the last run",
		}),
		RunDocuments: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadmapdocs_run_documents",
			Help: "Documents requested by the last run",
		}),
		RunExtras: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadmapdocs_run_extras",
			Help: "Documents written to the extras directory by the last run",
		}),
		ListingDegraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadmapdocs_listing_degraded",
			Help: "1 when the last run resolved topics without a content listing",
		}),

		DocumentsFetchedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roadmapdocs_documents_fetched_total",
			Help: "Document downloads by result",
		}, []string{"result"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadmapdocs_fetch_duration_seconds",
			Help:    "Document download latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		PreviewRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roadmapdocs_preview_requests_total",
			Help: "Preview server requests",
		}, []string{"method", "status"}),
		PreviewRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roadmapdocs_preview_request_duration_seconds",
			Help:    "Preview server latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// RecordFetch records one document download.
func (r *Registry) RecordFetch(ok bool, d time.Duration) {
	result := "ok"
	if !ok {
		result = "placeholder"
	}
	r.DocumentsFetchedTotal.WithLabelValues(result).Inc()
	r.FetchDuration.Observe(d.Seconds())
}

// RecordRun records the outcome of a whole run.
func (r *Registry) RecordRun(status string, d time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(d.Seconds())
}

// SetLayout publishes the shape of the last written tree.
func (r *Registry) SetLayout(sections, documents, extras int) {
	r.RunSections.Set(float64(sections))
	r.RunDocuments.Set(float64(documents))
	r.RunExtras.Set(float64(extras))
}

func (r *Registry) SetDegraded(degraded bool) {
	if degraded {
		r.ListingDegraded.Set(1)
	} else {
		r.ListingDegraded.Set(0)
	}
}

// RecordPreviewRequest records one preview server request.
func (r *Registry) RecordPreviewRequest(method string, status int, d time.Duration) {
	r.PreviewRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.PreviewRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
