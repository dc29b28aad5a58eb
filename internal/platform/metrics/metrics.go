package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Manager holds the custom Prometheus metrics for the API.
type Manager struct {
	Registry *prometheus.Registry

	OrdersCreatedTotal       prometheus.Counter
	OrderStatusChangesTotal  *prometheus.CounterVec
	NotificationsSentTotal   prometheus.Counter
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestLatency       *prometheus.HistogramVec
	WebsocketClientsGauge    prometheus.Gauge
	LoginFailuresTotal       prometheus.Counter
	PasswordResetCodesIssued prometheus.Counter
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status transitions by target status.",
	}, []string{"status"})
	notificationsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications persisted and published.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code.",
	}, []string{"route", "method", "code"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of currently connected websocket clients.",
	})
	loginFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of failed login attempts.",
	})
	resetCodes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_reset_codes_issued_total",
		Help:      "Total number of password reset codes issued.",
	})

	registry.MustRegister(
		ordersCreated,
		statusChanges,
		notificationsSent,
		httpRequests,
		httpLatency,
		wsClients,
		loginFailures,
		resetCodes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                 registry,
		OrdersCreatedTotal:       ordersCreated,
		OrderStatusChangesTotal:  statusChanges,
		NotificationsSentTotal:   notificationsSent,
		HTTPRequestsTotal:        httpRequests,
		HTTPRequestLatency:       httpLatency,
		WebsocketClientsGauge:    wsClients,
		LoginFailuresTotal:       loginFailures,
		PasswordResetCodesIssued: resetCodes,
	}
}

// Handler exposes the registry for mounting on the main router.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
