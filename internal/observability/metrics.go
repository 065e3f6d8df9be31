package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_api_requests_total",
			Help: "Total number of backend API calls issued by the client.",
		},
		[]string{"method", "endpoint", "outcome"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "app_api_request_duration_seconds",
			Help:    "Backend API call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	tokenRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_token_refreshes_total",
			Help: "Total number of access-token refresh attempts.",
		},
		[]string{"result"},
	)
	pendingMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_pending_messages",
			Help: "Number of optimistic messages awaiting server confirmation.",
		},
	)
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_attachment_uploads_total",
			Help: "Total number of attachment upload sequences.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		apiRequestsTotal,
		apiRequestDuration,
		tokenRefreshesTotal,
		pendingMessages,
		uploadsTotal,
	)
}

func ObserveAPIRequest(method, endpoint, outcome string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	apiRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func IncTokenRefresh(result string) {
	tokenRefreshesTotal.WithLabelValues(result).Inc()
}

func SetPendingMessages(n int) {
	pendingMessages.Set(float64(n))
}

func IncUpload(result string) {
	uploadsTotal.WithLabelValues(result).Inc()
}
