package event

import "eventflow/pkg/monoid"

// Reduce left-folds the items of e starting from b. e must be finite.
func Reduce[A, B any](e Event[A], b B, f func(B, A) B) B {
	acc := b
	for _, a := range ToSlice(e) {
		acc = f(acc, a)
	}
	return acc
}

// ReduceRight right-folds the items of e starting from b. e must be finite.
func ReduceRight[A, B any](e Event[A], b B, f func(A, B) B) B {
	as := ToSlice(e)
	acc := b
	for i := len(as) - 1; i >= 0; i-- {
		acc = f(as[i], acc)
	}
	return acc
}

// FoldMap maps every item through f and combines the results with m. e must
// be finite.
func FoldMap[A, M any](m monoid.Monoid[M], e Event[A], f func(A) M) M {
	return Reduce(e, m.Empty(), func(acc M, a A) M {
		return m.Concat(acc, f(a))
	})
}

// Fold returns a producer that, on each subscription, folds everything e
// delivers into b and delivers the final accumulator exactly once. Note that
// f takes the item first.
func Fold[A, B any](e Event[A], b B, f func(A, B) B) Event[B] {
	return func(sub Subscriber[B]) {
		acc := b
		e.Subscribe(func(a A) {
			acc = f(a, acc)
		})
		sub(acc)
	}
}

// Count delivers the number of items e delivers.
func Count[A any](e Event[A]) Event[int] {
	return Fold(e, 0, func(_ A, n int) int { return n + 1 })
}

// Folded delivers the m-combination of every item e delivers. Like Fold it
// puts each item in front of the accumulator, so for a non-commutative m the
// items combine last to first.
func Folded[A any](m monoid.Monoid[A], e Event[A]) Event[A] {
	return Fold(e, m.Empty(), func(a A, acc A) A {
		return m.Concat(a, acc)
	})
}
