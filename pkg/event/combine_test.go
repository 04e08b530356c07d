package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventflow/pkg/event"
)

func TestChain(t *testing.T) {
	t.Parallel()

	e := event.Chain(event.From([]int{1, 2, 3}), func(a int) event.Event[int] {
		return event.From([]int{a, a + 1})
	})
	assertDelivers(t, e, []int{1, 2, 2, 3, 3, 4})
}

func TestChainMonadLaws(t *testing.T) {
	t.Parallel()

	f := func(n int) event.Event[int] { return event.From([]int{n, n * 10}) }
	g := func(n int) event.Event[int] { return event.Filter(event.Of(n+1), positive) }
	m := event.From([]int{-5, 0, 3})

	t.Run("left identity", func(t *testing.T) {
		assert.Equal(t, event.ToSlice(f(4)), event.ToSlice(event.Chain(event.Of(4), f)))
	})

	t.Run("right identity", func(t *testing.T) {
		assert.Equal(t, event.ToSlice(m), event.ToSlice(event.Chain(m, event.Of[int])))
	})

	t.Run("associativity", func(t *testing.T) {
		left := event.Chain(event.Chain(m, f), g)
		right := event.Chain(m, func(n int) event.Event[int] {
			return event.Chain(f(n), g)
		})
		assert.Equal(t, event.ToSlice(left), event.ToSlice(right))
	})
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	nested := event.From([]event.Event[string]{
		event.From([]string{"a", "b"}),
		event.Empty[string](),
		event.Of("c"),
	})
	assertDelivers(t, event.Flatten(nested), []string{"a", "b", "c"})
}

func TestChainFirst(t *testing.T) {
	t.Parallel()

	var seen []string
	e := event.ChainFirst(event.From([]int{1, 2}), func(n int) event.Event[string] {
		return event.Map(event.From([]string{"x", "y"}), func(s string) string {
			seen = append(seen, s)
			return s
		})
	})

	assertDelivers(t, e, []int{1, 1, 2, 2})
	assert.Equal(t, []string{"x", "y", "x", "y"}, seen)
}

func TestAp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fab      event.Event[func(int) int]
		fa       event.Event[int]
		expected []int
	}{
		{
			name:     "function side completes before values",
			fab:      event.From([]func(int) int{double, triple}),
			fa:       event.From([]int{1, 2, 3}),
			expected: []int{3, 6, 9},
		},
		{
			name:     "single function",
			fab:      event.Of(double),
			fa:       event.From([]int{1, 2}),
			expected: []int{2, 4},
		},
		{
			name:     "no values",
			fab:      event.Of(double),
			fa:       event.Empty[int](),
			expected: nil,
		},
		{
			name:     "no functions",
			fab:      event.Empty[func(int) int](),
			fa:       event.From([]int{1, 2}),
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertDelivers(t, event.Ap(tt.fab, tt.fa), tt.expected)
		})
	}
}

func TestApFirstApSecond(t *testing.T) {
	t.Parallel()

	assertDelivers(t, event.ApFirst(event.Of(1), event.From([]string{"a", "b"})), []int{1, 1})
	assertDelivers(t, event.ApSecond(event.Of(1), event.From([]string{"a", "b"})), []string{"a", "b"})
	assertDelivers(t, event.ApSecond(event.Empty[int](), event.Of("a")), nil)
}

func TestAlt(t *testing.T) {
	t.Parallel()

	assertDelivers(t, event.Alt(event.Of(1), func() event.Event[int] { return event.Of(2) }), []int{1, 2})

	p := event.From([]int{1, 2})
	q := event.From([]int{3})
	assert.Equal(t,
		append(event.ToSlice(p), event.ToSlice(q)...),
		event.ToSlice(event.Alt(p, func() event.Event[int] { return q })),
	)
}

func TestAltIsLazyOnFallback(t *testing.T) {
	t.Parallel()

	calls := 0
	e := event.Alt(event.Of(1), func() event.Event[int] {
		calls++
		return event.Empty[int]()
	})
	assert.Equal(t, 0, calls)

	assertDelivers(t, e, []int{1})
	assertDelivers(t, e, []int{1})
	assert.Equal(t, 2, calls)
}

func TestZeroIsAltIdentity(t *testing.T) {
	t.Parallel()

	p := event.From([]int{4, 5})
	assertDelivers(t, event.Zero[int](), nil)
	assertDelivers(t, event.Alt(event.Zero[int](), func() event.Event[int] { return p }), []int{4, 5})
	assertDelivers(t, event.Alt(p, event.Zero[int]), []int{4, 5})
}
