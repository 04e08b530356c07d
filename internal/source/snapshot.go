package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"eventflow/internal/database"
	"eventflow/internal/models"
	"eventflow/pkg/event"
)

// EntryLister is implemented by the dead letter queue
type EntryLister interface {
	GetEntries(ctx context.Context, start, stop int64) ([]models.DLQEntry, error)
}

// OrderLister is implemented by the database
type OrderLister interface {
	RecentOrders(ctx context.Context, limit int) ([]database.Order, error)
}

// DLQ snapshots every dead-lettered entry, oldest first.
func DLQ(ctx context.Context, lister EntryLister) (event.Event[models.DLQEntry], error) {
	entries, err := lister.GetEntries(ctx, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot DLQ: %w", err)
	}
	return event.From(entries), nil
}

// Orders snapshots the most recent orders, newest first.
func Orders(ctx context.Context, lister OrderLister, limit int) (event.Event[database.Order], error) {
	orders, err := lister.RecentOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot orders: %w", err)
	}
	return event.From(orders), nil
}

// JSON reads a JSON array of raw records. Each element becomes one Record,
// keyed by nothing; the pipeline reads the partition key from the payload.
func JSON(r io.Reader) (event.Event[models.Record], error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]models.Record, 0, len(raw))
	for _, msg := range raw {
		records = append(records, models.Record{Value: []byte(msg)})
	}
	return event.From(records), nil
}
