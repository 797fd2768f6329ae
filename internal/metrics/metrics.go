package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_chat_messages_published_total",
			Help: "Total messages accepted by the dispatcher",
		},
		[]string{"target_type"}, // "room" or "direct"
	)

	NotificationsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_chat_notifications_routed_total",
			Help: "Total notifications routed to personal destinations",
		},
		[]string{"type"},
	)

	LiveDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_chat_live_deliveries_total",
			Help: "Total payloads pushed to live subscribers",
		},
		[]string{"topic_type"}, // "room" or "user"
	)

	LiveDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "team_chat_live_dropped_total",
			Help: "Payloads dropped because a subscriber send buffer was full",
		},
	)

	QueueEnqueues = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "team_chat_queue_enqueues_total",
			Help: "Total entries appended to durable recipient queues",
		},
	)

	QueueDrains = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "team_chat_queue_drains_total",
			Help: "Total drain operations",
		},
	)

	QueueDrainedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "team_chat_queue_drained_items_total",
			Help: "Total entries returned by drain operations",
		},
	)

	// Очереди не ограничены по размеру, поэтому глубина должна быть видна
	QueueDepth = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "team_chat_queue_depth_on_enqueue",
			Help:    "Recipient queue depth observed right after an enqueue",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)
