package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart, checkout, and catalog activity.
type StorefrontMetrics struct {
	cartOps         *prometheus.CounterVec
	persistFailures prometheus.Counter
	checkouts       *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Best-effort cart snapshot writes that failed.",
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	catalogDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of upstream catalog requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(cartOps, persistFailures, checkouts, catalogDuration)
	return &StorefrontMetrics{
		cartOps:         cartOps,
		persistFailures: persistFailures,
		checkouts:       checkouts,
		catalogDuration: catalogDuration,
	}
}

// IncCartOp increments the counter for the named cart mutation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure counts a swallowed snapshot write failure.
func (m *StorefrontMetrics) IncPersistFailure() {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.Inc()
}

// IncCheckout increments the checkout counter for the given result.
func (m *StorefrontMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveCatalogDuration records the duration of a catalog round trip.
func (m *StorefrontMetrics) ObserveCatalogDuration(op string, duration time.Duration) {
	if m == nil || m.catalogDuration == nil {
		return
	}
	m.catalogDuration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
