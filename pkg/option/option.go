// Package option provides a minimal optional value used by the event
// combinators that filter, compact and traverse.
package option

// Option holds either a value of type A or nothing.
type Option[A any] struct {
	value A
	ok    bool
}

// Some wraps a present value.
func Some[A any](a A) Option[A] {
	return Option[A]{value: a, ok: true}
}

// None returns the absent value for A.
func None[A any]() Option[A] {
	return Option[A]{}
}

// IsSome reports whether a value is present.
func (o Option[A]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the value is absent.
func (o Option[A]) IsNone() bool {
	return !o.ok
}

// Get returns the value and whether it is present.
func (o Option[A]) Get() (A, bool) {
	return o.value, o.ok
}

// GetOrElse returns the value, or the result of onNone when absent.
func (o Option[A]) GetOrElse(onNone func() A) A {
	if o.ok {
		return o.value
	}
	return onNone()
}

// Map applies f to a present value.
func Map[A, B any](o Option[A], f func(A) B) Option[B] {
	if !o.ok {
		return None[B]()
	}
	return Some(f(o.value))
}

// FromPredicate returns a function producing Some(a) when p(a) holds and None
// otherwise.
func FromPredicate[A any](p func(A) bool) func(A) Option[A] {
	return func(a A) Option[A] {
		if p(a) {
			return Some(a)
		}
		return None[A]()
	}
}
