package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autopost_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autopost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ItemsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autopost_items_published_total",
			Help: "Articles published as drafts",
		},
		[]string{"feed"},
	)

	ItemsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autopost_items_failed_total",
			Help: "Articles that failed, by pipeline stage",
		},
		[]string{"stage"},
	)

	FeedsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autopost_feeds_failed_total",
			Help: "Feed fetches that failed",
		},
		[]string{"feed"},
	)

	PacingPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autopost_pacing_pauses_total",
			Help: "Pauses inserted to respect the publishing rate limit",
		},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autopost_runs_total",
			Help: "Pipeline runs by final state",
		},
		[]string{"state"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autopost_run_duration_seconds",
			Help:    "Wall time of a pipeline run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
)

func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		HttpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
