package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "nevado"

var (
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	cacheEvents  *prometheus.CounterVec
	rateLimit    *prometheus.CounterVec
)

func init() { InitRegistry() }

// InitRegistry (re)creates the registry and all collectors. Tests call it
// to start from a clean slate.
func InitRegistry() {
	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	cacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Cache hits, misses and writes by backend.",
	}, []string{"backend", "event"})

	rateLimit = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Rate limiter outcomes.",
	}, []string{"outcome"})

	registry.MustRegister(httpRequests, httpLatency, cacheEvents, rateLimit)
}

func ObserveHTTP(route, method string, status int, d time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

func ObserveCache(backend, event string) {
	cacheEvents.WithLabelValues(backend, event).Inc()
}

func ObserveRateLimit(outcome string) {
	rateLimit.WithLabelValues(outcome).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on its own listener so the scrape endpoint never
// shares the API's middleware chain.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
		}
	}()
}
