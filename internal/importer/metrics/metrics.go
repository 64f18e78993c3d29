package metrics

import (
	"time"

	"golang-stock-importer/internal/importer/pipeline"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records CSV import outcomes.
type ImportMetrics struct {
	imports  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the import collectors on reg.
func New(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock_importer",
			Name:      "imports_total",
			Help:      "CSV imports by format and status.",
		}, []string{"format", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock_importer",
			Name:      "rows_total",
			Help:      "CSV rows by format and outcome.",
		}, []string{"format", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stock_importer",
			Name:      "import_duration_seconds",
			Help:      "Duration of CSV imports.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
	}
	reg.MustRegister(m.imports, m.rows, m.duration)
	return m
}

// ObserveResult records a finished import.
func (m *ImportMetrics) ObserveResult(format string, result *pipeline.Result, elapsed time.Duration) {
	m.imports.WithLabelValues(format, string(result.Status)).Inc()
	m.rows.WithLabelValues(format, "success").Add(float64(result.SuccessCount))
	m.rows.WithLabelValues(format, "skipped").Add(float64(result.SkipCount))
	m.rows.WithLabelValues(format, "error").Add(float64(result.ErrorCount))
	m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveRejected records an import that was aborted before persistence.
func (m *ImportMetrics) ObserveRejected(format string, err error) {
	kind := pipeline.KindOf(err)
	if kind == "" {
		kind = "INTERNAL"
	}
	m.imports.WithLabelValues(format, "rejected_"+string(kind)).Inc()
}
