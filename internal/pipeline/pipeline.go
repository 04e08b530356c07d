// Package pipeline turns a finite batch of raw records into persisted events
// and dead-letter entries.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/metrics"
	"eventflow/internal/models"
	"eventflow/pkg/either"
	"eventflow/pkg/event"
)

// Store persists decoded events
type Store interface {
	Apply(ctx context.Context, d models.Decoded) error
}

// DeadLetter receives records that could not be processed
type DeadLetter interface {
	Push(ctx context.Context, rej models.Rejection) error
}

// Plan is the side-effect free split of a batch
type Plan struct {
	Accepted event.Event[models.Decoded]
	Rejected event.Event[models.Rejection]
}

// RejectedRecord describes a dead-lettered record in a Report
type RejectedRecord struct {
	EventID string `json:"eventId"`
	Error   string `json:"error"`
}

// Report describes the outcome of one batch
type Report struct {
	Received     int              `json:"received"`
	Processed    int              `json:"processed"`
	DeadLettered int              `json:"deadLettered"`
	DLQFailures  int              `json:"dlqFailures,omitempty"`
	Summary      models.Summary   `json:"summary"`
	Rejected     []RejectedRecord `json:"rejected,omitempty"`
}

// Pipeline applies a Plan to a store and a dead letter queue
type Pipeline struct {
	store Store
	dlq   DeadLetter
	rules config.Rules
}

// New creates a pipeline
func New(store Store, dlq DeadLetter, rules config.Rules) *Pipeline {
	return &Pipeline{store: store, dlq: dlq, rules: rules}
}

// Evaluate decodes and checks a batch. Decode failures come first in the
// rejected producer, in batch order, followed by rule failures. With
// rules.Atomic any failure rejects every record of the batch.
func Evaluate(batch event.Event[models.Record], rules config.Rules) Plan {
	decoded := event.PartitionMap(batch, decode)

	if rules.Atomic {
		return atomic(decoded, rules)
	}

	checked := event.PartitionMap(decoded.Right, func(d models.Decoded) either.Either[models.Rejection, models.Decoded] {
		if err := Check(rules, d); err != nil {
			return either.Left[models.Rejection, models.Decoded](models.Rejection{Record: d.Record, Err: err})
		}
		return either.Right[models.Rejection](d)
	})

	return Plan{
		Accepted: checked.Right,
		Rejected: event.Alt(decoded.Left, func() event.Event[models.Rejection] {
			return checked.Left
		}),
	}
}

func atomic(decoded event.Separated[models.Rejection, models.Decoded], rules config.Rules) Plan {
	validated := event.Traverse(event.ValidationApplicative[models.Decoded](), decoded.Right,
		func(d models.Decoded) either.Either[error, models.Decoded] {
			return either.FromError(d, Check(rules, d))
		})

	cause, _ := validated.LeftValue()
	if n := count(decoded.Left); n > 0 {
		cause = errors.Join(cause, fmt.Errorf("%d records failed to decode", n))
	}

	if cause == nil {
		accepted, _ := validated.RightValue()
		return Plan{Accepted: accepted, Rejected: event.Empty[models.Rejection]()}
	}

	return Plan{
		Accepted: event.Empty[models.Decoded](),
		Rejected: event.Alt(decoded.Left, func() event.Event[models.Rejection] {
			return event.Map(decoded.Right, func(d models.Decoded) models.Rejection {
				return models.Rejection{Record: d.Record, Err: fmt.Errorf("%w: %w", ErrBatchRejected, cause)}
			})
		}),
	}
}

func decode(r models.Record) either.Either[models.Rejection, models.Decoded] {
	d, err := models.Decode(r)
	if err != nil {
		return either.Left[models.Rejection, models.Decoded](models.Rejection{Record: r, Err: err})
	}
	return either.Right[models.Rejection](d)
}

func count[A any](e event.Event[A]) int {
	return event.Reduce(event.Count(e), 0, func(_, n int) int { return n })
}

// DryRun evaluates a batch and reports what Run would do, without touching
// the store or the dead letter queue.
func DryRun(batch event.Event[models.Record], rules config.Rules) Report {
	plan := Evaluate(batch, rules)
	return Report{
		Received:     count(batch),
		Processed:    count(plan.Accepted),
		DeadLettered: count(plan.Rejected),
		Summary:      event.FoldMap(models.SummaryMonoid, plan.Accepted, models.SummaryOf),
		Rejected:     rejectedRecords(plan.Rejected),
	}
}

// Run persists the accepted records and dead-letters the rest. A cancelled
// context aborts the batch before anything is dead-lettered.
func (p *Pipeline) Run(ctx context.Context, batch event.Event[models.Record]) (Report, error) {
	plan := Evaluate(batch, p.rules)

	var (
		applied []models.Decoded
		failed  []models.Rejection
	)

	err := event.Catch(func() {
		metrics.Instrument("persist", plan.Accepted).Subscribe(func(d models.Decoded) {
			if err := ctx.Err(); err != nil {
				event.ThrowError[models.Decoded](err)
			}

			if err := p.store.Apply(ctx, d); err != nil {
				metrics.RecordsProcessed.WithLabelValues(string(d.Type), "error").Inc()
				failed = append(failed, models.Rejection{Record: d.Record, Err: err})
				return
			}

			metrics.RecordsProcessed.WithLabelValues(string(d.Type), "success").Inc()
			applied = append(applied, d)
		})
	})
	if err != nil {
		return Report{}, fmt.Errorf("batch aborted: %w", err)
	}

	rejected := event.Alt(plan.Rejected, func() event.Event[models.Rejection] {
		return event.From(failed)
	})

	report := Report{
		Received:  count(batch),
		Processed: len(applied),
		Summary:   event.FoldMap(models.SummaryMonoid, event.From(applied), models.SummaryOf),
	}

	metrics.Instrument("dead_letter", rejected).Subscribe(func(rej models.Rejection) {
		report.Rejected = append(report.Rejected, RejectedRecord{EventID: rej.Record.ID(), Error: rej.Error()})
		metrics.RecordsProcessed.WithLabelValues(typeLabel(rej.Record), "rejected").Inc()

		if err := p.dlq.Push(ctx, rej); err != nil {
			logger.WithRecordID(rej.Record.ID()).WithField("error", err.Error()).Error("Failed to push to DLQ")
			report.DLQFailures++
			return
		}
		report.DeadLettered++
	})

	logger.WithStage("run").WithFields(logrus.Fields{
		"received":     report.Received,
		"processed":    report.Processed,
		"deadLettered": report.DeadLettered,
		"dlqFailures":  report.DLQFailures,
	}).Info("Batch processed")

	return report, nil
}

func rejectedRecords(e event.Event[models.Rejection]) []RejectedRecord {
	return event.ToSlice(event.Map(e, func(rej models.Rejection) RejectedRecord {
		return RejectedRecord{EventID: rej.Record.ID(), Error: rej.Error()}
	}))
}

func typeLabel(r models.Record) string {
	if t := r.Type(); slices.Contains(models.KnownTypes, t) {
		return string(t)
	}
	return "unknown"
}
