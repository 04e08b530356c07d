package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/config"
	"eventflow/internal/models"
	"eventflow/internal/pipeline"
	"eventflow/pkg/event"
)

type fakeStore struct {
	applied []string
	fail    map[string]error
	onApply func()
}

func (s *fakeStore) Apply(_ context.Context, d models.Decoded) error {
	if s.onApply != nil {
		s.onApply()
	}
	if err := s.fail[d.ID()]; err != nil {
		return err
	}
	s.applied = append(s.applied, d.ID())
	return nil
}

type fakeDLQ struct {
	pushed []models.Rejection
	err    error
}

func (q *fakeDLQ) Push(_ context.Context, rej models.Rejection) error {
	if q.err != nil {
		return q.err
	}
	q.pushed = append(q.pushed, rej)
	return nil
}

func record(t *testing.T, e models.DomainEvent) models.Record {
	t.Helper()
	r, err := models.NewRecord(e)
	require.NoError(t, err)
	return r
}

func order(id, currency string, amount float64) models.OrderPlaced {
	base := models.NewBaseEvent(models.OrderPlacedEvent)
	base.EventID = id
	return models.OrderPlaced{
		BaseEvent:   base,
		OrderID:     "order-" + id,
		UserID:      "user-1",
		TotalAmount: amount,
		Currency:    currency,
	}
}

func adjustment(id string, qty int) models.InventoryAdjusted {
	base := models.NewBaseEvent(models.InventoryAdjustedEvent)
	base.EventID = id
	return models.InventoryAdjusted{
		BaseEvent:      base,
		SKU:            "SKU-1",
		Quantity:       qty,
		AdjustmentType: "add",
	}
}

func garbage(key string) models.Record {
	return models.Record{Key: key, Value: []byte("not json")}
}

func ids(rs []models.Rejection) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Record.ID())
	}
	return out
}

func TestEvaluateSplitsBatch(t *testing.T) {
	t.Parallel()

	rules := config.Rules{AllowedCurrencies: []string{"USD"}}
	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		garbage("x"),
		record(t, order("b", "GBP", 5)),
		record(t, adjustment("c", 4)),
	})

	plan := pipeline.Evaluate(batch, rules)

	var accepted []string
	plan.Accepted.Subscribe(func(d models.Decoded) { accepted = append(accepted, d.ID()) })
	assert.Equal(t, []string{"a", "c"}, accepted)

	rejected := event.ToSlice(plan.Rejected)
	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0], models.ErrMalformed)
	assert.Equal(t, "b", rejected[1].Record.ID())
	assert.ErrorIs(t, rejected[1], pipeline.ErrRuleViolation)
}

func TestEvaluateAtomicRejectsWholeBatch(t *testing.T) {
	t.Parallel()

	rules := config.Rules{MaxOrderAmount: 100, Atomic: true}
	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		record(t, order("b", "USD", 500)),
		record(t, adjustment("c", 4)),
	})

	plan := pipeline.Evaluate(batch, rules)

	assert.Empty(t, event.ToSlice(plan.Accepted))
	rejected := event.ToSlice(plan.Rejected)
	assert.Equal(t, []string{"a", "b", "c"}, ids(rejected))
	for _, r := range rejected {
		assert.ErrorIs(t, r, pipeline.ErrBatchRejected)
		assert.ErrorIs(t, r, pipeline.ErrRuleViolation)
	}
}

func TestEvaluateAtomicDecodeFailure(t *testing.T) {
	t.Parallel()

	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		garbage("x"),
	})

	plan := pipeline.Evaluate(batch, config.Rules{Atomic: true})

	assert.Empty(t, event.ToSlice(plan.Accepted))
	rejected := event.ToSlice(plan.Rejected)
	require.Len(t, rejected, 2)
	assert.ErrorIs(t, rejected[0], models.ErrMalformed)
	assert.ErrorIs(t, rejected[1], pipeline.ErrBatchRejected)
}

func TestEvaluateAtomicAcceptsCleanBatch(t *testing.T) {
	t.Parallel()

	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		record(t, adjustment("b", 1)),
	})

	plan := pipeline.Evaluate(batch, config.Rules{Atomic: true, MaxOrderAmount: 100})

	assert.Len(t, event.ToSlice(plan.Accepted), 2)
	assert.Empty(t, event.ToSlice(plan.Rejected))
}

func TestRun(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("deadlock")
	store := &fakeStore{fail: map[string]error{"c": storeErr}}
	dlq := &fakeDLQ{}
	p := pipeline.New(store, dlq, config.Rules{MaxAdjustment: 10})

	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		record(t, adjustment("b", 50)),
		record(t, adjustment("c", 2)),
		garbage("x"),
		record(t, order("d", "EUR", 3)),
	})

	report, err := p.Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "d"}, store.applied)
	assert.Equal(t, 5, report.Received)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 3, report.DeadLettered)
	assert.Equal(t, report.Received, report.Processed+report.DeadLettered)

	require.Len(t, dlq.pushed, 3)
	assert.ErrorIs(t, dlq.pushed[0], models.ErrMalformed)
	assert.ErrorIs(t, dlq.pushed[1], pipeline.ErrRuleViolation)
	assert.ErrorIs(t, dlq.pushed[2], storeErr)

	assert.Equal(t, 2, report.Summary.Records)
	assert.Equal(t, map[string]float64{"USD": 10, "EUR": 3}, report.Summary.OrderTotals)
	assert.Len(t, report.Rejected, 3)
}

func TestRunCountsDLQFailures(t *testing.T) {
	t.Parallel()

	p := pipeline.New(&fakeStore{}, &fakeDLQ{err: errors.New("redis down")}, config.Rules{})

	batch := event.From([]models.Record{record(t, order("a", "USD", 1)), garbage("x")})
	report, err := p.Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.DeadLettered)
	assert.Equal(t, 1, report.DLQFailures)
	assert.Equal(t, report.Received, report.Processed+report.DeadLettered+report.DLQFailures)
}

func TestRunAbortsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	store := &fakeStore{onApply: cancel}
	dlq := &fakeDLQ{}
	p := pipeline.New(store, dlq, config.Rules{})

	batch := event.From([]models.Record{
		record(t, order("a", "USD", 1)),
		record(t, order("b", "USD", 2)),
		garbage("x"),
	})

	_, err := p.Run(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, store.applied)
	assert.Empty(t, dlq.pushed)
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	batch := event.From([]models.Record{
		record(t, order("a", "USD", 10)),
		garbage("x"),
	})

	report := pipeline.DryRun(batch, config.Rules{})

	assert.Equal(t, 2, report.Received)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.DeadLettered)
	assert.Equal(t, 1, report.Summary.Records)
	require.Len(t, report.Rejected, 1)
	assert.Contains(t, report.Rejected[0].Error, "malformed")
}
