package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// Registry holds the service collectors on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	ordersSubmitted   prometheus.Counter
	checkoutRejected  *prometheus.CounterVec
	statusChanges     *prometheus.CounterVec
	feedEvents        *prometheus.CounterVec
	ordersByBucket    *prometheus.GaugeVec
	addressLookups    *prometheus.CounterVec
	addressLookupTime *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewRegistry registers every collector.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ordersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitinbox_orders_submitted_total",
			Help: "Orders persisted by checkout.",
		}),
		checkoutRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitinbox_checkout_rejected_total",
			Help: "Checkouts rejected by validation.",
		}, []string{"reason"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitinbox_order_status_changes_total",
			Help: "Status changes written to the order store.",
		}, []string{"status"}),
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitinbox_order_feed_events_total",
			Help: "Change feed events reconciled into the projection.",
		}, []string{"type"}),
		ordersByBucket: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fitinbox_orders",
			Help: "Orders in the projection per bucket.",
		}, []string{"bucket"}),
		addressLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitinbox_address_lookups_total",
			Help: "Postal code lookups per provider and outcome.",
		}, []string{"provider", "outcome"}),
		addressLookupTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitinbox_address_lookup_seconds",
			Help:    "Postal code lookup latency per provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitinbox_http_requests_total",
			Help: "HTTP requests per route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitinbox_http_request_duration_seconds",
			Help:    "HTTP request latency per route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ordersSubmitted,
		r.checkoutRejected,
		r.statusChanges,
		r.feedEvents,
		r.ordersByBucket,
		r.addressLookups,
		r.addressLookupTime,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Handler exposes the registry in the text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) OrderSubmitted() { r.ordersSubmitted.Inc() }

func (r *Registry) CheckoutRejected(reason string) {
	r.checkoutRejected.WithLabelValues(reason).Inc()
}

func (r *Registry) StatusChanged(status model.OrderStatus) {
	r.statusChanges.WithLabelValues(string(status)).Inc()
}

func (r *Registry) FeedEvent(change model.ChangeType) {
	r.feedEvents.WithLabelValues(string(change)).Inc()
}

func (r *Registry) OrderBuckets(counts map[model.Bucket]int) {
	for bucket, n := range counts {
		r.ordersByBucket.WithLabelValues(string(bucket)).Set(float64(n))
	}
}

// ObserveAddressLookup records one provider attempt.
func (r *Registry) ObserveAddressLookup(provider, outcome string, elapsed time.Duration) {
	r.addressLookups.WithLabelValues(provider, outcome).Inc()
	r.addressLookupTime.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request.
func (r *Registry) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, status).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
