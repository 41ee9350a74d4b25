package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_http_requests_total",
			Help: "Total number of outbound API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_http_request_duration_seconds",
			Help:    "Duration of outbound API requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	RetryCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "client_http_request_retries_total",
			Help: "Requests reissued after a token refresh",
		},
	)

	RefreshCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_token_refresh_total",
			Help: "Token refresh attempts by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RetryCounter)
	prometheus.MustRegister(RefreshCounter)
}

// ObserveRequest 记录一次出站请求
func ObserveRequest(method, endpoint string, status int, start time.Time) {
	RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
}
