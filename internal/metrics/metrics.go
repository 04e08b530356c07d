package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eventflow/pkg/event"
)

var (
	// RecordsProcessed tracks total records processed
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_processed_total",
			Help: "Total number of records processed",
		},
		[]string{"event_type", "status"},
	)

	// StageDeliveries tracks items delivered by each instrumented stage
	StageDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stage_deliveries_total",
			Help: "Total number of items delivered by a pipeline stage",
		},
		[]string{"stage"},
	)

	// StageDuration tracks how long one subscription to a stage takes
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stage_subscription_duration_seconds",
			Help:    "Duration of a single subscription to a pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// DLQCount tracks dead letter queue entries
	DLQCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dlq_entries_total",
			Help: "Total number of entries in dead letter queue",
		},
	)

	// DBLatency tracks database operation latency
	DBLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// KafkaProduceLatency tracks Kafka produce latency
	KafkaProduceLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kafka_produce_duration_seconds",
			Help:    "Kafka produce latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// KafkaConsumeLatency tracks Kafka batch drain latency
	KafkaConsumeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kafka_consume_duration_seconds",
			Help:    "Kafka batch drain latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Instrument wraps e so that every subscription is timed and every delivered
// item counted under the given stage label.
func Instrument[A any](stage string, e event.Event[A]) event.Event[A] {
	deliveries := StageDeliveries.WithLabelValues(stage)
	duration := StageDuration.WithLabelValues(stage)

	return func(sub event.Subscriber[A]) {
		start := time.Now()
		defer func() {
			duration.Observe(time.Since(start).Seconds())
		}()

		e.Subscribe(func(a A) {
			deliveries.Inc()
			sub(a)
		})
	}
}
