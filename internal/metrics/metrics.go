// Package metrics — метрики Prometheus сервиса новостей.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetusrex",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vetusrex",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BackendErrors — ошибки обращений к БД и хранилищу по операции и типу.
	BackendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetusrex",
			Name:      "backend_errors_total",
			Help:      "Total number of failed backend calls",
		},
		[]string{"operation", "kind"},
	)

	// Panics — паники, перехваченные Recoverer, по шаблону маршрута.
	Panics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetusrex",
			Name:      "http_panics_total",
			Help:      "Total number of recovered handler panics",
		},
		[]string{"route"},
	)

	// CoalescedFetches — запросы страниц, объединённые с уже идущим.
	CoalescedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vetusrex",
			Name:      "news_list_coalesced_fetches_total",
			Help:      "Page fetches served by an in-flight request",
		},
	)
)

func RecordRequest(method, route string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

func RecordBackendError(operation, kind string) {
	BackendErrors.WithLabelValues(operation, kind).Inc()
}
