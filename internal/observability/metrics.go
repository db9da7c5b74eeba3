package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// WebSocketConnectionsTotal is the gauge of active broadcast connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quill_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// BroadcastDeliveries counts per-connection delivery attempts by outcome.
	BroadcastDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_broadcast_deliveries_total",
		Help: "Total broadcast delivery attempts by outcome",
	}, []string{"outcome"})

	// BroadcastEvictions counts connections evicted as stale during fan-out.
	BroadcastEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_broadcast_evictions_total",
		Help: "Total connections evicted as stale during broadcast",
	})

	// CommentEventsTotal counts realtime comment events by type.
	CommentEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_comment_events_total",
		Help: "Total realtime comment events by type",
	}, []string{"event_type"})
)

// Delivery outcome labels for BroadcastDeliveries.
const (
	DeliveryOK        = "ok"
	DeliveryGone      = "gone"
	DeliveryTransient = "transient"
)
