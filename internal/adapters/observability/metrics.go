package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bookparse", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookparse", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ParseOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bookparse", Name: "parse_outcomes_total", Help: "Document parse outcomes."},
		[]string{"status", "code"}, // code is empty on success/partial
	)
	ParseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookparse", Name: "parse_duration_seconds",
			Help:    "Document parse duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	WebhookRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bookparse", Name: "webhook_requests_total", Help: "Outbound webhook deliveries."},
		[]string{"status"},
	)
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookparse", Name: "webhook_request_duration_seconds",
			Help:    "Outbound webhook delivery duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bookparse", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ParseOutcomes, ParseDuration, WebhookRequests, WebhookLatency, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveParse(status, code string, dur time.Duration) {
	ParseOutcomes.WithLabelValues(status, code).Inc()
	ParseDuration.WithLabelValues(status).Observe(dur.Seconds())
}

func ObserveWebhook(status int, dur time.Duration) {
	WebhookRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	WebhookLatency.WithLabelValues(strconv.Itoa(status)).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
