package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	InboundMessages  *prometheus.CounterVec
	OutboundMessages *prometheus.CounterVec
	RouterBranches   *prometheus.CounterVec
	LeadsRecorded    *prometheus.CounterVec
	OrdersRecorded   prometheus.Counter
	TwilioRequests   *prometheus.CounterVec
	TwilioLatency    *prometheus.HistogramVec
	NotifierEvents   *prometheus.CounterVec
	Errors           *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			InboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbound_messages_total",
				Help:      "Total inbound WhatsApp messages by outcome.",
			}, []string{"outcome"}),
			OutboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbound_messages_total",
				Help:      "Total outbound WhatsApp messages by delivery status.",
			}, []string{"status"}),
			RouterBranches: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "router_branches_total",
				Help:      "Total router decisions by matched branch.",
			}, []string{"branch"}),
			LeadsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leads_recorded_total",
				Help:      "Total captured leads by source.",
			}, []string{"source"}),
			OrdersRecorded: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_recorded_total",
				Help:      "Total initiated orders.",
			}),
			TwilioRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "twilio_requests_total",
				Help:      "Total Twilio API requests by status.",
			}, []string{"status"}),
			TwilioLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "twilio_request_duration_seconds",
				Help:      "Latency distribution for Twilio API calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
			NotifierEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifier_events_total",
				Help:      "Total operator notifications by outcome.",
			}, []string{"status"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.InboundMessages,
			metricsInstance.OutboundMessages,
			metricsInstance.RouterBranches,
			metricsInstance.LeadsRecorded,
			metricsInstance.OrdersRecorded,
			metricsInstance.TwilioRequests,
			metricsInstance.TwilioLatency,
			metricsInstance.NotifierEvents,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
