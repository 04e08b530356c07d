package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"eventflow/internal/config"
	"eventflow/internal/dlq"
	"eventflow/internal/logger"
	"eventflow/internal/models"
	"eventflow/internal/source"
	"eventflow/pkg/event"
	"eventflow/pkg/monoid"
)

func main() {
	latest := flag.Int("latest", 5, "number of most recent entries to print")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}

	dlqClient, err := dlq.New(&cfg.Redis)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer dlqClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := source.DLQ(ctx, dlqClient)
	if err != nil {
		logger.Log.Fatalf("Failed to read DLQ: %v", err)
	}

	byReason := event.FoldMap(monoid.MapSum[string, int](), entries, func(e models.DLQEntry) map[string]int {
		return map[string]int{e.Error: 1}
	})
	total := event.FoldMap(monoid.Sum[int](), entries, func(models.DLQEntry) int { return 1 })

	fmt.Printf("\n[*] DLQ entries: %d\n\n", total)

	reasons := make([]string, 0, len(byReason))
	for reason := range byReason {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return byReason[reasons[i]] > byReason[reasons[j]] })
	for _, reason := range reasons {
		fmt.Printf("  %5d  %s\n", byReason[reason], reason)
	}

	recent := event.ToSlice(entries)
	if len(recent) > *latest {
		recent = recent[len(recent)-*latest:]
	}

	if len(recent) > 0 {
		fmt.Println("\n[*] Latest DLQ entries:")
	}
	for i, entry := range recent {
		fmt.Printf("\n  Entry %d:\n", i+1)
		fmt.Printf("    Event ID: %s\n", entry.EventID)
		fmt.Printf("    Error: %s\n", entry.Error)
		fmt.Printf("    Timestamp: %s\n", entry.Timestamp.Format(time.RFC3339))

		preview := entry.OriginalData
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		fmt.Printf("    Original Data: %s\n", preview)
	}
	fmt.Println()
}
