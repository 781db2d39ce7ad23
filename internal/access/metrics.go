package access

import "github.com/prometheus/client_golang/prometheus"

// Значения метки decision.
const (
	decisionAllow    = "allow"
	decisionDeny     = "deny"
	decisionNotFound = "not_found"
	decisionError    = "error"
)

// Metrics содержит счётчики решений о доступе.
type Metrics struct {
	Decisions *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует метрики в registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dotpoint_access_decisions_total",
				Help: "Total number of access decisions by check and outcome",
			},
			[]string{"check", "decision"},
		),
	}
	registry.MustRegister(m.Decisions)
	return m
}

func (m *Metrics) observe(check, decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(check, decision).Inc()
}
