package event_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventflow/pkg/event"
)

func double(n int) int { return n * 2 }

func triple(n int) int { return n * 3 }

func positive(n int) bool { return n > 0 }

// assertDelivers subscribes once and compares the delivered items in order.
func assertDelivers[A any](t *testing.T, e event.Event[A], expected []A) {
	t.Helper()

	var got []A
	e.Subscribe(func(a A) {
		got = append(got, a)
	})

	if len(expected) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, expected, got)
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	assertDelivers(t, event.Empty[int](), nil)
	assertDelivers(t, event.Of(1), []int{1})
	assertDelivers(t, event.From([]int{1, 2, 3}), []int{1, 2, 3})
	assertDelivers(t, event.From([]int{}), nil)
	assertDelivers(t, event.From([]int{7}), []int{7})
}

func TestFromRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string][]string{
		"single": {"a"},
		"many":   {"a", "b", "c", "b"},
		"empty":  nil,
	}

	for name, xs := range inputs {
		xs := xs
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, xs, event.ToSlice(event.From(xs)))
		})
	}
}

func TestFromCopiesInput(t *testing.T) {
	t.Parallel()

	xs := []int{1, 2, 3}
	e := event.From(xs)
	xs[0] = 100

	assertDelivers(t, e, []int{1, 2, 3})
}

func TestResubscribeReplays(t *testing.T) {
	t.Parallel()

	e := event.Map(event.From([]int{1, 2}), double)
	assert.Equal(t, event.ToSlice(e), event.ToSlice(e))
	assertDelivers(t, e, []int{2, 4})
}

func TestNilEventDeliversNothing(t *testing.T) {
	t.Parallel()

	var e event.Event[int]
	assert.Empty(t, event.ToSlice(e))
	assertDelivers(t, event.Map(e, double), nil)
}

func TestDeliveryIsSynchronous(t *testing.T) {
	t.Parallel()

	var got []int
	returned := false
	event.From([]int{1, 2}).Subscribe(func(n int) {
		assert.False(t, returned)
		got = append(got, n)
	})
	returned = true

	assert.Equal(t, []int{1, 2}, got)
}

func TestMapFunctorLaws(t *testing.T) {
	t.Parallel()

	e := event.From([]int{1, 2, 3})
	assertDelivers(t, event.Map(e, double), []int{2, 4, 6})

	composed := event.Map(event.Map(e, double), strconv.Itoa)
	direct := event.Map(e, func(n int) string { return strconv.Itoa(double(n)) })
	assert.Equal(t, event.ToSlice(direct), event.ToSlice(composed))

	identity := event.Map(e, func(n int) int { return n })
	assert.Equal(t, event.ToSlice(e), event.ToSlice(identity))
}
