// Package metrics exposes mutation, cache and request counters in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a registry so tests can build isolated instances.
// A nil *Recorder records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	mutations    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	requests     *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_mutations_total",
			Help: "Form mutations by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_view_cache_lookups_total",
			Help: "View cache lookups by path and result.",
		}, []string{"path", "result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		r.mutations,
		r.cacheLookups,
		r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Mutation counts one mutation outcome.
func (r *Recorder) Mutation(entity, operation, outcome string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(entity, operation, outcome).Inc()
}

// CacheLookup counts a view cache hit or miss.
func (r *Recorder) CacheLookup(path string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(path, result).Inc()
}

// Middleware observes request latency keyed by the matched route pattern.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if r == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for assertions.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
