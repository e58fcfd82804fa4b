package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenikar/incident_intelligence/internal/models"
)

// Metrics - метрики вычисления оповещений.
// Нулевой указатель допустим, тогда все методы ничего не делают.
type Metrics struct {
	alertsGenerated   *prometheus.CounterVec
	incidentsExcluded prometheus.Counter
	computeDuration   prometheus.Histogram
	classifications   *prometheus.CounterVec
}

// New создает метрики и регистрирует их в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		alertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident",
			Name:      "alerts_generated_total",
			Help:      "Alerts produced by the alert engine, by kind",
		}, []string{"kind"}),
		incidentsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident",
			Name:      "alerts_excluded_total",
			Help:      "Incidents skipped by the alert engine due to missing timestamp or invalid position",
		}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident",
			Name:      "alerts_compute_duration_seconds",
			Help:      "Time spent computing alerts over a snapshot",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident",
			Name:      "classifications_total",
			Help:      "Incidents classified by keyword rules, by tier",
		}, []string{"tier"}),
	}
	reg.MustRegister(m.alertsGenerated, m.incidentsExcluded, m.computeDuration, m.classifications)
	return m
}

// ObserveComputation записывает результат одного вычисления
func (m *Metrics) ObserveComputation(alerts []models.Alert, excluded int, took time.Duration) {
	if m == nil {
		return
	}
	m.computeDuration.Observe(took.Seconds())
	m.incidentsExcluded.Add(float64(excluded))
	for _, a := range alerts {
		m.alertsGenerated.WithLabelValues(string(a.Kind)).Inc()
	}
}

// ObserveClassification учитывает одну классификацию
func (m *Metrics) ObserveClassification(tier models.Priority) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(string(tier)).Inc()
}
