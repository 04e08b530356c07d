package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/models"
	"eventflow/internal/pipeline"
	"eventflow/internal/sample"
	"eventflow/internal/source"
	"eventflow/pkg/event"
)

func main() {
	file := flag.String("file", "", "JSON array of records to evaluate; generated sample traffic when empty")
	rulesFile := flag.String("rules", "", "YAML rules file")
	users := flag.Int("users", 2, "users in the generated sample")
	flag.Parse()

	var rules config.Rules
	if *rulesFile != "" {
		r, err := config.LoadRules(*rulesFile)
		if err != nil {
			logger.Log.Fatalf("Failed to load rules: %v", err)
		}
		rules = r
	}

	var batch event.Event[models.Record]
	err := event.Catch(func() {
		batch = load(*file, *users)
	})
	if err != nil {
		logger.Log.Fatalf("Failed to build batch: %v", err)
	}

	report("per-record", pipeline.DryRun(batch, rules))

	rules.Atomic = true
	report("atomic", pipeline.DryRun(batch, rules))
}

func load(file string, users int) event.Event[models.Record] {
	if file == "" {
		generated := event.From(event.ToSlice(sample.Records(sample.Events(users))))
		return event.Alt(generated, sample.Malformed)
	}

	f, err := os.Open(file)
	if err != nil {
		return event.ThrowError[models.Record](err)
	}
	defer f.Close()

	batch, err := source.JSON(f)
	if err != nil {
		return event.ThrowError[models.Record](err)
	}
	return batch
}

func report(mode string, r pipeline.Report) {
	logger.WithFields(logrus.Fields{
		"mode":         mode,
		"received":     r.Received,
		"processed":    r.Processed,
		"deadLettered": r.DeadLettered,
		"byType":       r.Summary.ByType,
		"orderTotals":  r.Summary.OrderTotals,
		"stockDelta":   r.Summary.StockDelta,
	}).Info("Dry run")

	for _, rej := range r.Rejected {
		logger.WithRecordID(rej.EventID).WithField("mode", mode).Warn(rej.Error)
	}
}
