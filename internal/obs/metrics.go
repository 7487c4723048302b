package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/commerce-pricing/internal/order"
)

// Metrics holds the Prometheus collectors for the pricing pipeline.
type Metrics struct {
	RecalcTotal     *prometheus.CounterVec
	RecalcDuration  *prometheus.HistogramVec
	AdjustmentTotal *prometheus.CounterVec
}

// NewMetrics initialises and registers the pipeline collectors. A nil registerer
// falls back to the Prometheus default.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		RecalcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_recalc_total",
			Help:      "Count of order recalculation passes by outcome.",
		}, []string{"result"}),
		RecalcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_recalc_duration_ms",
			Help:      "Latency of recalculation passes in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"result"}),
		AdjustmentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_adjustments_total",
			Help:      "Count of emitted adjustments by type and included flag.",
		}, []string{"type", "included"}),
	}
	reg.MustRegister(m.RecalcTotal, m.RecalcDuration, m.AdjustmentTotal)
	return m
}

// ObserveRecalc records one recalculation outcome.
func (m *Metrics) ObserveRecalc(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.RecalcTotal.WithLabelValues(result).Inc()
	m.RecalcDuration.WithLabelValues(result).Observe(float64(d.Milliseconds()))
}

// CountAdjustments records the adjustments produced by one pass.
func (m *Metrics) CountAdjustments(adjustments []order.Adjustment) {
	if m == nil {
		return
	}
	for _, adj := range adjustments {
		included := "false"
		if adj.Included {
			included = "true"
		}
		m.AdjustmentTotal.WithLabelValues(string(adj.Type), included).Inc()
	}
}
