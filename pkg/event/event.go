package event

// Subscriber receives one delivered item.
type Subscriber[A any] func(a A)

// Event delivers items of type A to a Subscriber synchronously.
type Event[A any] func(sub Subscriber[A])

// Subscribe drives e with sub. A nil Event delivers nothing.
func (e Event[A]) Subscribe(sub Subscriber[A]) {
	if e == nil {
		return
	}
	e(sub)
}

// Empty delivers nothing.
func Empty[A any]() Event[A] {
	return func(Subscriber[A]) {}
}

// Of delivers a once.
func Of[A any](a A) Event[A] {
	return func(sub Subscriber[A]) {
		sub(a)
	}
}

// From delivers every element of as in order. The slice is copied, so later
// changes to as are not observed.
func From[A any](as []A) Event[A] {
	if len(as) == 0 {
		return Empty[A]()
	}
	items := make([]A, len(as))
	copy(items, as)
	return func(sub Subscriber[A]) {
		for _, a := range items {
			sub(a)
		}
	}
}

// ToSlice subscribes to e once and returns everything it delivered, in order.
// e must be finite.
func ToSlice[A any](e Event[A]) []A {
	var as []A
	e.Subscribe(func(a A) {
		as = append(as, a)
	})
	return as
}
