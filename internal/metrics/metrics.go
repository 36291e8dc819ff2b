// metrics — prometheus-метрики сервиса. Регистрируются в default registry
// и отдаются служебным listener'ом на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests — число обработанных HTTP-запросов по шаблону маршрута.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "code"})

	// HTTPDuration — длительность обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthEvents — исходы операций входа и обновления сессии.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Authentication outcomes.",
	}, []string{"event"})

	// LikeToggles — переключения лайков по типу цели и итоговому состоянию.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "blog",
		Name:      "like_toggles_total",
		Help:      "Like toggles by target and resulting state.",
	}, []string{"target", "liked"})

	// JobRuns — запуски фоновых задач.
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Background job runs by result.",
	}, []string{"job", "result"})

	// EventsPublished — публикации доменных событий.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Published domain events by result.",
	}, []string{"type", "result"})
)

// Исходы аутентификации для AuthEvents.
const (
	AuthLoginOK       = "login_ok"
	AuthLoginFailed   = "login_failed"
	AuthRenewOK       = "renew_ok"
	AuthRenewRejected = "renew_rejected"
	AuthRevoked       = "revoked"
)
