// Package metrics exposes Prometheus collectors for HTTP traffic and the
// quiz attempt pipeline.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_total",
			Help: "Recorded quiz attempts by quiz kind and outcome",
		},
		[]string{"kind", "result"},
	)

	QuizCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_cache_lookups_total",
			Help: "Quiz catalog cache lookups by outcome",
		},
		[]string{"result"},
	)

	QuizAnswersPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_persisted_total",
			Help: "Quiz answer rows written by the answer worker",
		},
		[]string{"path"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizAttempts,
			QuizCacheLookups,
			QuizAnswersPersisted,
		)
	})
}

// Quiz kinds for ObserveAttempt.
const (
	KindModuleQuiz = "module"
	KindFinalQuiz  = "final"
)

// ObserveAttempt counts a recorded attempt of the given quiz kind.
func ObserveAttempt(kind string, passed bool) {
	if passed {
		QuizAttempts.WithLabelValues(kind, "passed").Inc()
		return
	}
	QuizAttempts.WithLabelValues(kind, "failed").Inc()
}

// ObserveCacheLookup counts a quiz cache hit or miss.
func ObserveCacheLookup(hit bool) {
	if hit {
		QuizCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	QuizCacheLookups.WithLabelValues("miss").Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
