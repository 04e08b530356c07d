package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"eventflow/internal/logger"
	"eventflow/internal/metrics"
	"eventflow/internal/models"
	"eventflow/pkg/event"
)

// MessageReader is the part of *kafka.Consumer a batch drain needs
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// Batch is a drained run of messages and the offsets it covers
type Batch struct {
	Records event.Event[models.Record]
	// First holds, per partition, the offset of the first message read.
	First []kafka.TopicPartition
	// Next holds, per partition, the offset to commit once the batch is done.
	Next []kafka.TopicPartition
}

type partitionKey struct {
	topic     string
	partition int32
}

// Kafka reads up to limit messages, stopping early once no message arrives
// within idle, and returns them as a finite producer of records.
func Kafka(reader MessageReader, limit int, idle time.Duration) (Batch, error) {
	start := time.Now()
	defer func() {
		metrics.KafkaConsumeLatency.Observe(time.Since(start).Seconds())
	}()

	var (
		records = make([]models.Record, 0, limit)
		batch   Batch
		index   = map[partitionKey]int{}
	)

	for len(records) < limit {
		msg, err := reader.ReadMessage(idle)
		if err != nil {
			if isTimeout(err) {
				break
			}
			if len(records) == 0 {
				return Batch{}, fmt.Errorf("failed to read message: %w", err)
			}
			logger.Log.Errorf("Consumer error, closing batch early: %v", err)
			break
		}

		records = append(records, models.Record{
			Key:   string(msg.Key),
			Value: msg.Value,
		})

		tp := msg.TopicPartition
		key := partitionKey{partition: tp.Partition}
		if tp.Topic != nil {
			key.topic = *tp.Topic
		}

		next := tp
		next.Offset = tp.Offset + 1
		next.Error = nil

		if i, ok := index[key]; ok {
			batch.Next[i] = next
			continue
		}

		first := tp
		first.Error = nil
		index[key] = len(batch.First)
		batch.First = append(batch.First, first)
		batch.Next = append(batch.Next, next)
	}

	batch.Records = event.From(records)
	return batch, nil
}

func isTimeout(err error) bool {
	var kerr kafka.Error
	return errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut
}
