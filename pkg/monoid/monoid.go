// Package monoid defines associative combination of values, with and without
// an identity element, plus the handful of instances the event aggregations
// need.
package monoid

// Semigroup combines two values associatively.
type Semigroup[A any] interface {
	Concat(x, y A) A
}

// Monoid is a Semigroup with an identity element.
type Monoid[A any] interface {
	Semigroup[A]
	Empty() A
}

// Number covers the built-in numeric kinds.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type monoid[A any] struct {
	empty  A
	concat func(x, y A) A
}

func (m monoid[A]) Concat(x, y A) A {
	return m.concat(x, y)
}

func (m monoid[A]) Empty() A {
	return m.empty
}

// New builds a Monoid from an identity and a combine function.
func New[A any](empty A, concat func(x, y A) A) Monoid[A] {
	return monoid[A]{empty: empty, concat: concat}
}

// Sum adds numbers, starting at zero.
func Sum[A Number]() Monoid[A] {
	return New(A(0), func(x, y A) A { return x + y })
}

// String concatenates strings.
func String() Monoid[string] {
	return New("", func(x, y string) string { return x + y })
}

// MapSum merges maps by adding the values of shared keys. Neither input is
// modified; two empty maps combine to nil.
func MapSum[K comparable, V Number]() Monoid[map[K]V] {
	return New[map[K]V](nil, func(x, y map[K]V) map[K]V {
		if len(x) == 0 && len(y) == 0 {
			return nil
		}

		out := make(map[K]V, len(x)+len(y))
		for k, v := range x {
			out[k] += v
		}
		for k, v := range y {
			out[k] += v
		}
		return out
	})
}

// Concat folds all values with m from left to right.
func Concat[A any](m Monoid[A], as ...A) A {
	acc := m.Empty()
	for _, a := range as {
		acc = m.Concat(acc, a)
	}
	return acc
}
