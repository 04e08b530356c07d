package event

import "eventflow/pkg/monoid"

type semigroup[A any] struct {
	s monoid.Semigroup[A]
}

// Semigroup lifts s to producers. Concat(x, y) subscribes x and, for every
// item x delivers, subscribes y and delivers s.Concat(left, right) for every
// item y delivers.
func Semigroup[A any](s monoid.Semigroup[A]) monoid.Semigroup[Event[A]] {
	return semigroup[A]{s: s}
}

func (g semigroup[A]) Concat(x, y Event[A]) Event[A] {
	return func(sub Subscriber[A]) {
		x.Subscribe(func(left A) {
			y.Subscribe(func(right A) {
				sub(g.s.Concat(left, right))
			})
		})
	}
}

type eventMonoid[A any] struct {
	semigroup[A]
	empty A
}

// Monoid lifts m to producers. The identity is Of(m.Empty()).
func Monoid[A any](m monoid.Monoid[A]) monoid.Monoid[Event[A]] {
	return eventMonoid[A]{semigroup: semigroup[A]{s: m}, empty: m.Empty()}
}

func (m eventMonoid[A]) Empty() Event[A] {
	return Of(m.empty)
}

// SampleOn drives fa to completion, keeping its latest value, then delivers
// f(latest) for every f that fab delivers. Nothing is delivered if fa never
// fired.
func SampleOn[A, B any](fab Event[func(A) B], fa Event[A]) Event[B] {
	return func(sub Subscriber[B]) {
		var (
			latest A
			fired  bool
		)

		fa.Subscribe(func(a A) {
			latest = a
			fired = true
		})

		fab.Subscribe(func(f func(A) B) {
			if fired {
				sub(f(latest))
			}
		})
	}
}

// Sample re-delivers the latest value of fa each time trigger fires.
func Sample[A, B any](trigger Event[B], fa Event[A]) Event[A] {
	return SampleOn(Map(trigger, func(B) func(A) A {
		return func(a A) A { return a }
	}), fa)
}
