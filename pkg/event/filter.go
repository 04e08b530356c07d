package event

import (
	"eventflow/pkg/either"
	"eventflow/pkg/option"
)

// Separated is the result of splitting one producer in two.
type Separated[L, R any] struct {
	Left  Event[L]
	Right Event[R]
}

// Filter delivers the items of e satisfying p. It streams; e is never
// materialized.
func Filter[A any](e Event[A], p func(A) bool) Event[A] {
	return func(sub Subscriber[A]) {
		e.Subscribe(func(a A) {
			if p(a) {
				sub(a)
			}
		})
	}
}

// FilterMap materializes e immediately, keeps the present results of f and
// returns them as a new producer. e must be finite.
func FilterMap[A, B any](e Event[A], f func(A) option.Option[B]) Event[B] {
	as := ToSlice(e)
	bs := make([]B, 0, len(as))
	for _, a := range as {
		if b, ok := f(a).Get(); ok {
			bs = append(bs, b)
		}
	}
	return From(bs)
}

// PartitionMap splits e by the side f tags each item with. Each side is built
// by its own FilterMap pass over e, so e is materialized twice and must be
// finite.
func PartitionMap[A, L, R any](e Event[A], f func(A) either.Either[L, R]) Separated[L, R] {
	return Separated[L, R]{
		Left: FilterMap(e, func(a A) option.Option[L] {
			if l, ok := f(a).LeftValue(); ok {
				return option.Some(l)
			}
			return option.None[L]()
		}),
		Right: FilterMap(e, func(a A) option.Option[R] {
			if r, ok := f(a).RightValue(); ok {
				return option.Some(r)
			}
			return option.None[R]()
		}),
	}
}

// Partition puts the items failing p on the Left and those satisfying it on
// the Right.
func Partition[A any](e Event[A], p func(A) bool) Separated[A, A] {
	return PartitionMap(e, either.FromPredicate(p, func(a A) A { return a }))
}

// Compact drops absent items.
func Compact[A any](e Event[option.Option[A]]) Event[A] {
	return FilterMap(e, func(o option.Option[A]) option.Option[A] { return o })
}

// Separate splits an already tagged producer.
func Separate[L, R any](e Event[either.Either[L, R]]) Separated[L, R] {
	return PartitionMap(e, func(x either.Either[L, R]) either.Either[L, R] { return x })
}
