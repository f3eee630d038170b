package multipart

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional collaborator that records parser activity as
// Prometheus instrumentation. It is nil by default (no registration, no
// collection cost); a caller embedding the parser in a server registers one
// against its own prometheus.Registry, the same way a caller would hand the
// parser a zap.Logger via WithLogger.
type Metrics struct {
	partsParsed       prometheus.Counter
	spillFilesCreated prometheus.Counter
	spillBytesWritten prometheus.Histogram
	cleanupFailures   prometheus.Counter
}

// NewMetrics constructs a Metrics collector and registers its instruments
// with reg under the given namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		partsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "multipart_parts_parsed_total",
			Help:      "Parts successfully emitted by the parser.",
		}),
		spillFilesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "multipart_spill_files_created_total",
			Help:      "Temporary files created by the spill driver.",
		}),
		spillBytesWritten: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "multipart_spill_bytes_written",
			Help:      "Bytes written per part that spilled to disk.",
			Buckets:   prometheus.ExponentialBuckets(1<<20, 4, 8), // 1MiB..16GiB
		}),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "multipart_spill_cleanup_failures_total",
			Help:      "Temporary file deletions that failed.",
		}),
	}

	reg.MustRegister(m.partsParsed, m.spillFilesCreated, m.spillBytesWritten, m.cleanupFailures)

	return m
}

func (m *Metrics) observePart() {
	if m == nil {
		return
	}
	m.partsParsed.Inc()
}

func (m *Metrics) observeSpill(bytesWritten int64) {
	if m == nil {
		return
	}
	m.spillFilesCreated.Inc()
	m.spillBytesWritten.Observe(float64(bytesWritten))
}

func (m *Metrics) observeCleanupFailure() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
}
