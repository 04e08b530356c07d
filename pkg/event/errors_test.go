package event_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/pkg/either"
	"eventflow/pkg/event"
	"eventflow/pkg/option"
)

func TestThrowError(t *testing.T) {
	t.Parallel()

	err := event.Catch(func() {
		event.ThrowError[int]("bla")
	})
	require.Error(t, err)
	assert.Equal(t, "bla", err.Error())

	var thrown *event.ThrownError
	assert.ErrorAs(t, err, &thrown)
}

func TestThrowErrorKeepsErrors(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := event.Catch(func() {
		event.ThrowError[int](fmt.Errorf("wrapped: %w", sentinel))
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "wrapped: sentinel", err.Error())

	err = event.Catch(func() {
		event.ThrowError[int](42)
	})
	assert.EqualError(t, err, "42")
}

func TestCatch(t *testing.T) {
	t.Parallel()

	assert.NoError(t, event.Catch(func() {}))
	assert.PanicsWithValue(t, "unrelated", func() {
		_ = event.Catch(func() { panic("unrelated") })
	})
}

func TestFromOption(t *testing.T) {
	t.Parallel()

	lift := event.FromOption[int](func() any { return "bla" })
	assertDelivers(t, lift(option.Some(1)), []int{1})

	err := event.Catch(func() { lift(option.None[int]()) })
	assert.EqualError(t, err, "bla")
}

func TestFromEither(t *testing.T) {
	t.Parallel()

	assertDelivers(t, event.FromEither(either.Right[string](5)), []int{5})

	err := event.Catch(func() { event.FromEither(either.Left[string, int]("bla")) })
	assert.EqualError(t, err, "bla")
}

func TestFromPredicate(t *testing.T) {
	t.Parallel()

	assertDelivers(t, event.FromPredicate(positive, func(int) any { return 1 })(5), []int{5})

	err := event.Catch(func() {
		event.FromPredicate(positive, func(int) any { return "bla" })(-5)
	})
	assert.EqualError(t, err, "bla")
}

func TestFilterOrElse(t *testing.T) {
	t.Parallel()

	e := event.FilterOrElse(event.From([]int{1, 2, -1, 3}), positive, func(n int) any {
		return fmt.Sprintf("not positive: %d", n)
	})

	var got []int
	err := event.Catch(func() {
		e.Subscribe(func(n int) { got = append(got, n) })
	})

	assert.EqualError(t, err, "not positive: -1")
	assert.Equal(t, []int{1, 2}, got)

	assertDelivers(t, event.FilterOrElse(event.From([]int{1, 2}), positive, func(int) any { return "" }), []int{1, 2})
}
