package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeOperations counts like and unlike calls by outcome.
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_like_operations_total",
		Help: "Total number of like and unlike operations by outcome",
	}, []string{"operation", "outcome"})

	// NotificationsCreated counts persisted notifications by verb.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_notifications_created_total",
		Help: "Total number of notifications created",
	}, []string{"verb"})

	// FeedLatency records how long feed assembly takes.
	FeedLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "murmur_feed_latency_seconds",
		Help:    "Feed assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// WebSocketConnections is the gauge of open realtime connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "murmur_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts realtime messages dropped on slow connections.
	WebSocketBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	})
)

// RecordLike increments the like counter for the given operation and outcome.
func RecordLike(operation, outcome string) {
	LikeOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveFeed records feed latency; use with defer.
func ObserveFeed(start time.Time) {
	FeedLatency.Observe(time.Since(start).Seconds())
}
