package litecmp

import "github.com/prometheus/client_golang/prometheus"

// Metrics records lifecycle activity for every component of a runtime.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Mounts     prometheus.Counter
	Unmounts   prometheus.Counter
	Renders    prometheus.Counter
	HookErrors *prometheus.CounterVec
	Listeners  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "litecmp",
			Name:      "mounts_total",
			Help:      "Number of component mounts.",
		}),
		Unmounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "litecmp",
			Name:      "unmounts_total",
			Help:      "Number of component unmounts.",
		}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "litecmp",
			Name:      "renders_total",
			Help:      "Number of render cycles written to a host element.",
		}),
		HookErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "litecmp",
			Name:      "hook_errors_total",
			Help:      "Hook and event handler failures, by lifecycle phase.",
		}, []string{"phase"}),
		Listeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "litecmp",
			Name:      "bound_listeners",
			Help:      "Delegated listeners currently bound to host elements.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Mounts, m.Unmounts, m.Renders, m.HookErrors, m.Listeners)
	}
	return m
}

func (m *Metrics) mounted() {
	if m != nil {
		m.Mounts.Inc()
	}
}

func (m *Metrics) unmounted() {
	if m != nil {
		m.Unmounts.Inc()
	}
}

func (m *Metrics) rendered() {
	if m != nil {
		m.Renders.Inc()
	}
}

func (m *Metrics) hookFailed(phase Phase) {
	if m != nil {
		m.HookErrors.WithLabelValues(phase.String()).Inc()
	}
}

func (m *Metrics) listenersChanged(delta int) {
	if m != nil && delta != 0 {
		m.Listeners.Add(float64(delta))
	}
}
