package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// map-generation pipeline and the query API.
type Metrics struct {
	RegionsLoaded    prometheus.Counter
	RegionsExcluded  *prometheus.CounterVec // labels: reason={missing_value,nonpositive_prior,yoy_clamp,price_clamp,no_centroid}
	MapsRendered     *prometheus.CounterVec // labels: map={yoy,price_levels}
	ResultsPublished prometheus.Counter

	FetchDuration    prometheus.Histogram
	PipelineDuration prometheus.Histogram
	PipelineRunning  prometheus.Gauge

	// Selection engine metrics (query API).
	SelectionRecomputes *prometheus.CounterVec // labels: mode={viewport,boundary,global}
	SelectionSize       prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RegionsLoaded,
		m.RegionsExcluded,
		m.MapsRendered,
		m.ResultsPublished,
		m.FetchDuration,
		m.PipelineDuration,
		m.PipelineRunning,
		m.SelectionRecomputes,
		m.SelectionSize,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RegionsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricemaps",
			Name:      "regions_loaded_total",
			Help:      "Regions that survived the series/centroid/population join.",
		}),
		RegionsExcluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricemaps",
			Name:      "regions_excluded_total",
			Help:      "Regions excluded from the comparison set by reason.",
		}, []string{"reason"}),
		MapsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricemaps",
			Name:      "maps_rendered_total",
			Help:      "HTML map files written by map type.",
		}, []string{"map"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricemaps",
			Name:      "results_published_total",
			Help:      "Comparison results published to the Kafka sink topic.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricemaps",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the ZHVI CSV download and parse.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricemaps",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete fetch-compare-render run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pricemaps",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		SelectionRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricemaps",
			Name:      "selection_recomputes_total",
			Help:      "Breakpoint recomputations by selection mode.",
		}, []string{"mode"}),
		SelectionSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricemaps",
			Name:      "selection_size",
			Help:      "Number of regions in the active selection at recompute time.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		}),
	}
}
