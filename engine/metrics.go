package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a Driver's loop: batches read, records scanned,
// records emitted after projection, and records the filter rejected
// (Null or False). A nil *Metrics disables collection entirely so the
// core loop never pays for what it isn't asked for.
type Metrics struct {
	BatchesRead    prometheus.Counter
	RecordsScanned prometheus.Counter
	RecordsEmitted prometheus.Counter
	RecordsDropped prometheus.Counter
}

// NewMetrics builds a Metrics instance and registers its instruments
// with reg. reg may be nil, in which case the instruments are created
// but never registered (still safe to call from a Driver with no
// registry wired up).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BatchesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marcql",
			Name:      "batches_read_total",
			Help:      "Number of record batches pulled from the MARC reader.",
		}),
		RecordsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marcql",
			Name:      "records_scanned_total",
			Help:      "Number of record views produced by the MARC reader.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marcql",
			Name:      "records_emitted_total",
			Help:      "Number of projected records handed to the sink.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marcql",
			Name:      "records_dropped_total",
			Help:      "Number of records the filter rejected (Null or False).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.BatchesRead, m.RecordsScanned, m.RecordsEmitted, m.RecordsDropped)
	}
	return m
}

// ObserveBatch records one freshly read batch of n record views.
func (m *Metrics) ObserveBatch(n int) {
	m.BatchesRead.Inc()
	m.RecordsScanned.Add(float64(n))
}

// ObserveRejected records n records the filter partitioned out of the
// True region.
func (m *Metrics) ObserveRejected(n int) {
	m.RecordsDropped.Add(float64(n))
}

// ObserveEmitted records n records projection handed to the sink.
func (m *Metrics) ObserveEmitted(n int) {
	m.RecordsEmitted.Add(float64(n))
}
