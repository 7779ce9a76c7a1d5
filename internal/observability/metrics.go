// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedRefreshTotal counts whole-feed refetches by trigger.
	FeedRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_feed_refresh_total",
		Help: "Total number of feed refetches by trigger (signal, initial)",
	}, []string{"trigger"})

	// FeedSignalTotal counts change-feed signals received.
	FeedSignalTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibeconnect_feed_signal_total",
		Help: "Total number of change-feed notifications received",
	})

	// WebSocketConnections is the gauge of active WebSocket connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vibeconnect_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events delivered by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibeconnect_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketDrops counts messages dropped because a client's send
	// buffer was full.
	WebSocketDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibeconnect_websocket_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	})
)
