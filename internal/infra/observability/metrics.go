package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// Metrics holds the Prometheus metrics for the analytics pipeline.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	uploadsTotal       *prometheus.CounterVec
	recomputeDuration  *prometheus.HistogramVec
	unmatchedPurchases prometheus.Counter
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vendalytics_uploads_total",
				Help: "Uploads processed, by slot and outcome.",
			},
			[]string{"slot", "status"},
		),
		recomputeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vendalytics_recompute_duration_seconds",
				Help:    "Duration of full snapshot recomputes, by pipeline.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pipeline"},
		),
		unmatchedPurchases: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vendalytics_unmatched_purchases_total",
				Help: "Purchase rows that resolved to no catalog entry. Not an error path.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vendalytics_cache_hits_total",
				Help: "Total snapshot cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vendalytics_cache_misses_total",
				Help: "Total snapshot cache misses.",
			},
			[]string{"cache"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vendalytics_exports_total",
				Help: "Spreadsheet exports served, by view.",
			},
			[]string{"view"},
		),
	}
}

// IncrUpload increments the upload counter for a slot with an outcome label.
func (m *Metrics) IncrUpload(slot, status string) {
	m.uploadsTotal.WithLabelValues(slot, status).Inc()
}

// RecordRecompute records the duration of one pipeline recompute.
func (m *Metrics) RecordRecompute(pipeline string, d time.Duration) {
	m.recomputeDuration.WithLabelValues(pipeline).Observe(d.Seconds())
}

// AddUnmatched adds silently-dropped purchase rows from one join pass.
func (m *Metrics) AddUnmatched(n int) {
	m.unmatchedPurchases.Add(float64(n))
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrExport increments the export counter for a view.
func (m *Metrics) IncrExport(view string) {
	m.exportsTotal.WithLabelValues(view).Inc()
}

// GetPipelineSnapshot returns a counter snapshot suitable for the
// GET /v1/metrics/pipeline endpoint.
// Note: Prometheus counters expose cumulative values.
func (m *Metrics) GetPipelineSnapshot() *domain.PipelineMetrics {
	var accepted, rejected float64
	for _, slot := range []string{domain.SlotProducts, domain.SlotBuyers, domain.SlotLedger} {
		accepted += getCounterValue(m.uploadsTotal, slot, "accepted")
		rejected += getCounterValue(m.uploadsTotal, slot, "rejected")
	}

	var hits, misses float64
	for _, cache := range []string{"products", "ledger"} {
		hits += getCounterValue(m.cacheHits, cache)
		misses += getCounterValue(m.cacheMisses, cache)
	}
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	unmatched := float64(0)
	pb := &dto.Metric{}
	if err := m.unmatchedPurchases.Write(pb); err == nil && pb.Counter != nil && pb.Counter.Value != nil {
		unmatched = *pb.Counter.Value
	}

	exports := getCounterValue(m.exportsTotal, "products") + getCounterValue(m.exportsTotal, "ledger")

	return &domain.PipelineMetrics{
		UploadsAccepted:    int64(accepted),
		UploadsRejected:    int64(rejected),
		UnmatchedPurchases: int64(unmatched),
		CacheHitRate:       hitRate,
		Exports:            int64(exports),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for
// the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	pb := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(pb); err != nil {
		return 0
	}
	if pb.Counter != nil && pb.Counter.Value != nil {
		return *pb.Counter.Value
	}
	return 0
}
