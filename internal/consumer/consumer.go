package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/models"
	"eventflow/internal/pipeline"
	"eventflow/internal/source"
	"eventflow/pkg/event"
)

// ErrUncommitted is returned when a batch is rewound instead of committed so
// that the next poll reads it again.
var ErrUncommitted = errors.New("batch left uncommitted")

// Runner processes one batch
type Runner interface {
	Run(ctx context.Context, batch event.Event[models.Record]) (pipeline.Report, error)
}

type client interface {
	source.MessageReader
	CommitOffsets(offsets []kafka.TopicPartition) ([]kafka.TopicPartition, error)
	Seek(partition kafka.TopicPartition, ignoredTimeoutMs int) error
	Close() error
}

// Consumer drains Kafka in batches and hands each batch to a Runner
type Consumer struct {
	consumer  client
	runner    Runner
	batchSize int
	idle      time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a new Kafka consumer
func New(cfg *config.KafkaConfig, pcfg config.PipelineConfig, runner Runner) (*Consumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"group.id":           cfg.ConsumerGroup,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	if err := c.Subscribe(cfg.Topic, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to subscribe to topic: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"topic":         cfg.Topic,
		"consumerGroup": cfg.ConsumerGroup,
		"batchSize":     pcfg.BatchSize,
	}).Info("Successfully created Kafka consumer")

	return newConsumer(c, runner, pcfg), nil
}

func newConsumer(c client, runner Runner, pcfg config.PipelineConfig) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		consumer:  c,
		runner:    runner,
		batchSize: pcfg.BatchSize,
		idle:      pcfg.IdleTimeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start consumes batches until Stop is called. A failed batch is retried
// after the idle timeout.
func (c *Consumer) Start() {
	logger.Log.Info("Starting consumer...")

	for {
		select {
		case <-c.ctx.Done():
			logger.Log.Info("Consumer stopping...")
			return
		default:
		}

		if _, err := c.poll(); err != nil {
			logger.Log.Errorf("Batch failed: %v", err)

			select {
			case <-c.ctx.Done():
			case <-time.After(c.idle):
			}
		}
	}
}

// Stop stops the consumer
func (c *Consumer) Stop() {
	c.cancel()
	c.consumer.Close()
}

// poll drains one batch and runs it. A batch that ran cleanly has exactly
// its own offsets committed; any other batch is rewound so the next poll
// reads it again.
func (c *Consumer) poll() (pipeline.Report, error) {
	batch, err := source.Kafka(c.consumer, c.batchSize, c.idle)
	if err != nil {
		return pipeline.Report{}, err
	}

	if len(batch.Next) == 0 {
		return pipeline.Report{}, nil
	}

	report, err := c.runner.Run(c.ctx, batch.Records)
	if err == nil && report.DLQFailures > 0 {
		err = fmt.Errorf("%w: %d records could not be dead-lettered", ErrUncommitted, report.DLQFailures)
	}

	if err != nil {
		if rerr := c.rewind(batch); rerr != nil {
			return report, errors.Join(err, rerr)
		}
		return report, err
	}

	if _, err := c.consumer.CommitOffsets(batch.Next); err != nil {
		return report, fmt.Errorf("failed to commit offsets: %w", err)
	}

	return report, nil
}

// rewind moves every partition the batch touched back to its first offset
func (c *Consumer) rewind(batch source.Batch) error {
	for _, tp := range batch.First {
		if err := c.consumer.Seek(tp, 0); err != nil {
			return fmt.Errorf("failed to seek partition %d back to %v: %w", tp.Partition, tp.Offset, err)
		}
	}
	return nil
}
