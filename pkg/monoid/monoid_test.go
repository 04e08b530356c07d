package monoid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventflow/pkg/monoid"
)

func TestInstances(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, monoid.Concat(monoid.Sum[int](), 1, 2, 3))
	assert.Equal(t, 0, monoid.Concat(monoid.Sum[int]()))
	assert.Equal(t, 1.5, monoid.Concat(monoid.Sum[float64](), 1, 0.5))
	assert.Equal(t, "abc", monoid.Concat(monoid.String(), "a", "b", "c"))
}

func TestMapSum(t *testing.T) {
	t.Parallel()

	m := monoid.MapSum[string, int]()
	x := map[string]int{"a": 1}
	y := map[string]int{"a": 2, "b": 3}

	assert.Equal(t, map[string]int{"a": 3, "b": 3}, m.Concat(x, y))
	assert.Equal(t, map[string]int{"a": 1}, x)
	assert.Nil(t, m.Concat(nil, map[string]int{}))
	assert.Equal(t, y, m.Concat(m.Empty(), y))
}
