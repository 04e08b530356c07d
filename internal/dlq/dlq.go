package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/metrics"
	"eventflow/internal/models"
)

// DLQ handles dead letter queue operations
type DLQ struct {
	client redis.Cmdable
	closer func() error
	key    string
	now    func() time.Time
}

// New creates a new DLQ instance
func New(cfg *config.RedisConfig) (*DLQ, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Log.Info("Successfully connected to Redis")

	d := NewWithClient(client, cfg.DLQKey)
	d.closer = client.Close
	return d, nil
}

// NewWithClient wraps an existing Redis client
func NewWithClient(client redis.Cmdable, key string) *DLQ {
	return &DLQ{
		client: client,
		closer: func() error { return nil },
		key:    key,
		now:    time.Now,
	}
}

// Close closes the Redis connection
func (d *DLQ) Close() error {
	return d.closer()
}

// Entry builds the dead letter entry for a rejected record. JSON records are
// annotated with the failure reason.
func (d *DLQ) Entry(rej models.Rejection) models.DLQEntry {
	now := d.now()
	return models.DLQEntry{
		EventID:      rej.Record.ID(),
		OriginalData: string(rej.Record.Annotate(rej.Error(), now)),
		Error:        rej.Error(),
		Timestamp:    now,
	}
}

// Push adds a rejected record to the DLQ
func (d *DLQ) Push(ctx context.Context, rej models.Rejection) error {
	entry := d.Entry(rej)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ entry: %w", err)
	}

	// Push to Redis list
	if err := d.client.RPush(ctx, d.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push to DLQ: %w", err)
	}

	metrics.DLQCount.Inc()

	logger.WithRecordID(entry.EventID).WithFields(logrus.Fields{
		"error": entry.Error,
	}).Warn("Record pushed to DLQ")

	return nil
}

// GetCount returns the number of entries in the DLQ
func (d *DLQ) GetCount(ctx context.Context) (int64, error) {
	return d.client.LLen(ctx, d.key).Result()
}

// GetEntries retrieves entries from the DLQ
func (d *DLQ) GetEntries(ctx context.Context, start, stop int64) ([]models.DLQEntry, error) {
	results, err := d.client.LRange(ctx, d.key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get DLQ entries: %w", err)
	}

	entries := make([]models.DLQEntry, 0, len(results))
	for _, result := range results {
		var entry models.DLQEntry
		if err := json.Unmarshal([]byte(result), &entry); err != nil {
			logger.Log.Errorf("Failed to unmarshal DLQ entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
