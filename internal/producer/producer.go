package producer

import (
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/metrics"
	"eventflow/internal/models"
	"eventflow/pkg/event"
)

type client interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// Producer wraps Kafka producer
type Producer struct {
	producer client
	topic    string
}

// New creates a new Kafka producer
func New(cfg *config.KafkaConfig) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"client.id":         "eventflow-producer",
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.Log.Info("Successfully created Kafka producer")

	return &Producer{
		producer: p,
		topic:    cfg.Topic,
	}, nil
}

// Close flushes outstanding messages and closes the producer
func (p *Producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}

// PublishEvent marshals a domain event and publishes it
func (p *Producer) PublishEvent(e models.DomainEvent) error {
	rec, err := models.NewRecord(e)
	if err != nil {
		return err
	}
	return p.Publish(rec)
}

// PublishAll publishes every record e delivers, stopping at the first
// failure. It returns how many records were delivered.
func (p *Producer) PublishAll(e event.Event[models.Record]) (int, error) {
	sent := 0
	err := event.Catch(func() {
		e.Subscribe(func(rec models.Record) {
			if err := p.Publish(rec); err != nil {
				event.ThrowError[models.Record](err)
			}
			sent++
		})
	})
	return sent, err
}

// Publish sends a record to Kafka and waits for its delivery report
func (p *Producer) Publish(rec models.Record) error {
	start := time.Now()
	defer func() {
		metrics.KafkaProduceLatency.Observe(time.Since(start).Seconds())
	}()

	deliveryChan := make(chan kafka.Event, 1)

	err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(rec.Key),
		Value:          rec.Value,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	m, ok := (<-deliveryChan).(*kafka.Message)
	if !ok {
		return fmt.Errorf("unexpected delivery report for %s", rec.ID())
	}

	if m.TopicPartition.Error != nil {
		logger.WithRecordID(rec.ID()).WithFields(logrus.Fields{
			"eventType": rec.Type(),
			"error":     m.TopicPartition.Error.Error(),
		}).Error("Failed to deliver message")
		return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
	}

	logger.WithRecordID(rec.ID()).WithFields(logrus.Fields{
		"eventType": rec.Type(),
		"partition": m.TopicPartition.Partition,
		"offset":    m.TopicPartition.Offset,
	}).Debug("Message delivered")

	return nil
}
