package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message lifecycle metrics
var (
	// MessagesSubmittedTotal counts accepted message submissions
	MessagesSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_submitted_total",
			Help: "Total accepted message submissions",
		},
	)

	// SentimentLabelsTotal counts completed sentiment analyses by label
	SentimentLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_labels_total",
			Help: "Completed sentiment analyses by resulting label",
		},
		[]string{"label"},
	)

	// SentimentUpdatesDropped counts deferred updates whose message no longer existed
	SentimentUpdatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_updates_dropped_total",
			Help: "Deferred sentiment updates dropped because the message was gone",
		},
	)
)

// WebSocket metrics
var (
	// WebSocketConnectedClients tracks currently registered connections
	WebSocketConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently registered WebSocket connections",
		},
	)

	// WebSocketJoinedClients tracks connections that completed the join handshake
	WebSocketJoinedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_joined_clients",
			Help: "Connections that have joined with an identity",
		},
	)

	// BroadcastEventsTotal counts broadcasts by event type
	BroadcastEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_events_total",
			Help: "Broadcast events by event type",
		},
		[]string{"event"},
	)

	// SlowClientDisconnectsTotal counts clients dropped for a full send queue
	SlowClientDisconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slow_client_disconnects_total",
			Help: "Clients disconnected because their send queue was full",
		},
	)
)

// Redis store metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
