package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/models"
	"eventflow/internal/producer"
	"eventflow/internal/sample"
)

func main() {
	logger.Log.Info("Starting eventflow producer...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.Log.Level)

	prod, err := producer.New(&cfg.Kafka)
	if err != nil {
		logger.Log.Fatalf("Failed to create producer: %v", err)
	}
	defer prod.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\n=== Event Producer Menu ===")
		fmt.Println("1. Create User")
		fmt.Println("2. Place Order")
		fmt.Println("3. Settle Payment")
		fmt.Println("4. Adjust Inventory")
		fmt.Println("5. Generate Sample Events")
		fmt.Println("6. Send Malformed Events")
		fmt.Println("7. Send Duplicate User")
		fmt.Println("0. Exit")
		fmt.Print("\nSelect option: ")

		if !scanner.Scan() {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			publish(prod, createUser())
		case "2":
			publish(prod, placeOrder())
		case "3":
			publish(prod, settlePayment())
		case "4":
			publish(prod, adjustInventory())
		case "5":
			generateSampleEvents(prod, scanner)
		case "6":
			sendMalformed(prod)
		case "7":
			sendDuplicates(prod)
		case "0":
			logger.Log.Info("Exiting...")
			return
		default:
			fmt.Println("Invalid option")
		}
	}
}

func publish(prod *producer.Producer, e models.DomainEvent) {
	if err := prod.PublishEvent(e); err != nil {
		logger.Log.Errorf("Failed to publish %s: %v", e.Meta().EventType, err)
		return
	}
	fmt.Printf("✓ %s published (key %s)\n", e.Meta().EventType, e.GetKey())
}

func createUser() models.DomainEvent {
	userID := models.NewEventID()
	return models.UserCreated{
		BaseEvent: models.NewBaseEvent(models.UserCreatedEvent),
		UserID:    userID,
		Email:     fmt.Sprintf("user%s@example.com", userID[:8]),
		FirstName: "John",
		LastName:  "Doe",
		CreatedAt: time.Now().UTC(),
	}
}

func placeOrder() models.DomainEvent {
	return models.OrderPlaced{
		BaseEvent:   models.NewBaseEvent(models.OrderPlacedEvent),
		OrderID:     models.NewEventID(),
		UserID:      models.NewEventID(),
		TotalAmount: 299.99,
		Currency:    "USD",
		Items: []models.OrderItem{
			{SKU: "LAPTOP-001", Quantity: 1, Price: 299.99},
		},
		PlacedAt: time.Now().UTC(),
	}
}

func settlePayment() models.DomainEvent {
	return models.PaymentSettled{
		BaseEvent:     models.NewBaseEvent(models.PaymentSettledEvent),
		PaymentID:     models.NewEventID(),
		OrderID:       models.NewEventID(),
		Amount:        299.99,
		Currency:      "USD",
		PaymentMethod: "credit_card",
		Status:        "completed",
		SettledAt:     time.Now().UTC(),
	}
}

func adjustInventory() models.DomainEvent {
	return models.InventoryAdjusted{
		BaseEvent:      models.NewBaseEvent(models.InventoryAdjustedEvent),
		SKU:            fmt.Sprintf("LAPTOP-%03d", time.Now().Unix()%1000),
		Quantity:       10,
		AdjustmentType: "add",
		Reason:         "restock",
		AdjustedAt:     time.Now().UTC(),
	}
}

func generateSampleEvents(prod *producer.Producer, scanner *bufio.Scanner) {
	fmt.Print("Number of users [3]: ")
	users := 3
	if scanner.Scan() {
		if n, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil && n > 0 {
			users = n
		}
	}

	sent, err := prod.PublishAll(sample.Records(sample.Events(users)))
	if err != nil {
		logger.Log.Errorf("Sample batch stopped after %d events: %v", sent, err)
		return
	}
	fmt.Printf("\n✅ Published %d sample events for %d users\n", sent, users)
}

func sendMalformed(prod *producer.Producer) {
	sent, err := prod.PublishAll(sample.Malformed())
	if err != nil {
		logger.Log.Errorf("Malformed batch stopped after %d records: %v", sent, err)
		return
	}
	fmt.Printf("❌ Sent %d malformed records, expect them in the DLQ\n", sent)
}

func sendDuplicates(prod *producer.Producer) {
	userID := models.NewEventID()
	sent, err := prod.PublishAll(sample.Records(sample.Duplicates(userID, 3)))
	if err != nil {
		logger.Log.Errorf("Duplicate batch stopped after %d events: %v", sent, err)
		return
	}
	fmt.Printf("📤 Sent %d signups for user %s, expect one row\n", sent, userID)
}
