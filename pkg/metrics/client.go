package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records request, refresh, and cart-fallback activity.
type ClientMetrics struct {
	requestDuration *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	retryTotal      prometheus.Counter
	cartFallback    *prometheus.CounterVec
}

// NewClientMetrics registers the client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_request_duration_seconds",
		Help:    "Duration of backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_token_refresh_total",
		Help: "Token refresh attempts by outcome.",
	}, []string{"outcome"})
	retryTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_auth_retry_total",
		Help: "Requests re-issued after a refresh-then-retry cycle.",
	})
	cartFallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_fallback_total",
		Help: "Cart mutations degraded to the local cart, by trigger.",
	}, []string{"trigger"})
	reg.MustRegister(requestDuration, refreshTotal, retryTotal, cartFallback)
	return &ClientMetrics{
		requestDuration: requestDuration,
		refreshTotal:    refreshTotal,
		retryTotal:      retryTotal,
		cartFallback:    cartFallback,
	}
}

// ObserveRequest records the duration of a backend call.
func (c *ClientMetrics) ObserveRequest(endpoint, status string, duration time.Duration) {
	if c == nil || c.requestDuration == nil {
		return
	}
	c.requestDuration.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(status)).Observe(duration.Seconds())
}

// IncRefresh counts a refresh attempt with the given outcome.
func (c *ClientMetrics) IncRefresh(outcome string) {
	if c == nil || c.refreshTotal == nil {
		return
	}
	c.refreshTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRetry counts a response-side refresh-then-retry execution.
func (c *ClientMetrics) IncRetry() {
	if c == nil || c.retryTotal == nil {
		return
	}
	c.retryTotal.Inc()
}

// IncCartFallback counts a cart mutation degraded to local state.
func (c *ClientMetrics) IncCartFallback(trigger string) {
	if c == nil || c.cartFallback == nil {
		return
	}
	c.cartFallback.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
