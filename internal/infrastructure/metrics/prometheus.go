// Package metrics expone las métricas del flujo de pedidos en formato Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/bookstore-api/internal/application/checkout"
	"github.com/jhoicas/bookstore-api/internal/domain/order"
)

// otherStatus agrupa los estados libres que acepta la ruta administrativa.
const otherStatus = "other"

var _ checkout.Metrics = (*OrderMetrics)(nil)

// OrderMetrics implementa checkout.Metrics.
type OrderMetrics struct {
	checkouts       *prometheus.CounterVec
	checkoutLatency prometheus.Histogram
	cancellations   prometheus.Counter
	statusChanges   *prometheus.CounterVec
}

// NewOrderMetrics crea y registra los colectores en reg.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	m := &OrderMetrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "checkouts_total",
			Help:      "Checkouts procesados por resultado.",
		}, []string{"result"}),
		checkoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookstore",
			Name:      "checkout_duration_seconds",
			Help:      "Duración de los checkouts exitosos.",
			Buckets:   prometheus.DefBuckets,
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "orders_cancelled_total",
			Help:      "Pedidos cancelados por sus dueños.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookstore",
			Name:      "order_status_changes_total",
			Help:      "Cambios administrativos de estado por estado destino.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.checkouts, m.checkoutLatency, m.cancellations, m.statusChanges)
	return m
}

func (m *OrderMetrics) CheckoutCompleted(elapsed time.Duration) {
	m.checkouts.WithLabelValues("ok").Inc()
	m.checkoutLatency.Observe(elapsed.Seconds())
}

func (m *OrderMetrics) CheckoutFailed(reason string) {
	m.checkouts.WithLabelValues(reason).Inc()
}

func (m *OrderMetrics) OrderCancelled() { m.cancellations.Inc() }

// OrderStatusChanged cuenta por estado destino; los estados fuera de la tabla van a "other"
// para que el label no crezca sin límite.
func (m *OrderMetrics) OrderStatusChanged(status string) {
	if !order.IsKnown(status) {
		status = otherStatus
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
