// Package sample generates demo traffic for the producer.
package sample

import (
	"fmt"
	"time"

	"eventflow/internal/models"
	"eventflow/pkg/event"
)

// eventsPerUser is the size of one user's story: signup, order, payment and
// the matching stock movement.
const eventsPerUser = 4

type cursor struct {
	step    int
	userID  string
	orderID string
}

// Events generates a coherent story for n users. Every subscription starts a
// new story with fresh ids.
func Events(n int) event.Event[models.DomainEvent] {
	return event.Unfold(cursor{}, func(c cursor) (models.DomainEvent, cursor, bool) {
		if c.step >= n*eventsPerUser {
			return nil, c, false
		}

		user := c.step / eventsPerUser
		if c.step%eventsPerUser == 0 {
			c.userID = models.NewEventID()
			c.orderID = models.NewEventID()
		}

		amount := float64((user + 1) * 100)
		sku := fmt.Sprintf("ITEM-%03d", user+1)
		now := time.Now().UTC()

		var e models.DomainEvent
		switch c.step % eventsPerUser {
		case 0:
			e = models.UserCreated{
				BaseEvent: models.NewBaseEvent(models.UserCreatedEvent),
				UserID:    c.userID,
				Email:     fmt.Sprintf("user%d@example.com", user+1),
				FirstName: fmt.Sprintf("User%d", user+1),
				LastName:  "Test",
				CreatedAt: now,
			}
		case 1:
			e = models.OrderPlaced{
				BaseEvent:   models.NewBaseEvent(models.OrderPlacedEvent),
				OrderID:     c.orderID,
				UserID:      c.userID,
				TotalAmount: amount,
				Currency:    "USD",
				Items:       []models.OrderItem{{SKU: sku, Quantity: 1, Price: amount}},
				PlacedAt:    now,
			}
		case 2:
			e = models.PaymentSettled{
				BaseEvent:     models.NewBaseEvent(models.PaymentSettledEvent),
				PaymentID:     models.NewEventID(),
				OrderID:       c.orderID,
				Amount:        amount,
				Currency:      "USD",
				PaymentMethod: "credit_card",
				Status:        "completed",
				SettledAt:     now,
			}
		default:
			e = models.InventoryAdjusted{
				BaseEvent:      models.NewBaseEvent(models.InventoryAdjustedEvent),
				SKU:            sku,
				Quantity:       1,
				AdjustmentType: "subtract",
				Reason:         "order " + c.orderID,
				AdjustedAt:     now,
			}
		}

		c.step++
		return e, c, true
	})
}

// Records marshals every event e delivers. A marshal failure is raised with
// event.ThrowError, so subscribe under event.Catch.
func Records(e event.Event[models.DomainEvent]) event.Event[models.Record] {
	return event.Chain(e, func(d models.DomainEvent) event.Event[models.Record] {
		rec, err := models.NewRecord(d)
		if err != nil {
			return event.ThrowError[models.Record](err)
		}
		return event.Of(rec)
	})
}

// Malformed returns records the pipeline must dead-letter, one per decode
// failure mode.
func Malformed() event.Event[models.Record] {
	return event.From([]models.Record{
		{Key: "dlq-test", Value: []byte(`{"eventId": "test-1", "eventType": "UserCreated", "bad json without closing brace`)},
		{Key: "dlq-test", Value: []byte(`{"eventId": "test-2", "eventType": "InvalidEventType", "timestamp": "2025-10-22T10:00:00Z"}`)},
		{Key: "dlq-test", Value: []byte(`{"eventId": "test-3", "eventType": "UserCreated", "timestamp": "not-a-valid-timestamp", "userId": "test"}`)},
		{Key: "dlq-test", Value: []byte(`{"eventId": "test-4", "eventType": "OrderPlaced", "timestamp": "2025-10-22T10:00:00Z"}`)},
	})
}

// Duplicates emits n signups for the same user, each under its own event id.
// The store must end up with a single user row.
func Duplicates(userID string, n int) event.Event[models.DomainEvent] {
	return event.Unfold(0, func(i int) (models.DomainEvent, int, bool) {
		if i >= n {
			return nil, i, false
		}
		return models.UserCreated{
			BaseEvent: models.NewBaseEvent(models.UserCreatedEvent),
			UserID:    userID,
			Email:     "duplicate.test@example.com",
			FirstName: "Duplicate",
			LastName:  "Test",
			CreatedAt: time.Now().UTC(),
		}, i + 1, true
	})
}
