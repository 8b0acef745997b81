package dex

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the coordinator's prometheus instruments. Construct once
// per process and pass to every Coordinator; the instruments are exported
// only after an explicit Register call, since recording never registers.
type Metrics struct {
	retryTotal  prometheus.Counter
	outstanding prometheus.Gauge
	registered  bool
}

// NewMetrics builds the instrument set without registering it.
func NewMetrics() *Metrics {
	return &Metrics{
		retryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lease_ictx_retry_total",
			Help: "Total number of ICTx retries attempted after a timeout.",
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lease_ictx_outstanding",
			Help: "Number of leases with an ICTx currently in flight.",
		}),
	}
}

// Register wires the instruments into reg exactly once.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil || m.registered {
		return nil
	}
	if err := reg.Register(m.retryTotal); err != nil {
		return err
	}
	if err := reg.Register(m.outstanding); err != nil {
		return err
	}
	m.registered = true
	return nil
}

func (m *Metrics) ObserveRetry() {
	if m != nil {
		m.retryTotal.Inc()
	}
}

func (m *Metrics) ObserveOutstandingDelta(delta float64) {
	if m != nil {
		m.outstanding.Add(delta)
	}
}
