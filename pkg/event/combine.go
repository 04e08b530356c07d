package event

// Map delivers f(a) for every a delivered by e.
func Map[A, B any](e Event[A], f func(A) B) Event[B] {
	return func(sub Subscriber[B]) {
		e.Subscribe(func(a A) {
			sub(f(a))
		})
	}
}

// Chain delivers, for each a delivered by e, everything f(a) delivers before
// e continues.
func Chain[A, B any](e Event[A], f func(A) Event[B]) Event[B] {
	return func(sub Subscriber[B]) {
		e.Subscribe(func(a A) {
			f(a).Subscribe(sub)
		})
	}
}

// Flatten removes one level of nesting.
func Flatten[A any](ee Event[Event[A]]) Event[A] {
	return Chain(ee, func(e Event[A]) Event[A] { return e })
}

// ChainFirst subscribes f(a) for every a and delivers a once for each item
// f(a) delivers.
func ChainFirst[A, B any](e Event[A], f func(A) Event[B]) Event[A] {
	return Chain(e, func(a A) Event[A] {
		return Map(f(a), func(B) A { return a })
	})
}

// Ap is latest-value combination. fab is subscribed first and runs to
// completion, then fa. Whenever either side fires and the other side has
// fired at least once, the latest function is applied to the latest value
// and the result delivered.
func Ap[A, B any](fab Event[func(A) B], fa Event[A]) Event[B] {
	return func(sub Subscriber[B]) {
		var (
			latestFn    func(A) B
			latestValue A
			fnFired     bool
			valueFired  bool
		)

		fab.Subscribe(func(f func(A) B) {
			latestFn = f
			fnFired = true
			if valueFired {
				sub(latestFn(latestValue))
			}
		})

		fa.Subscribe(func(a A) {
			latestValue = a
			valueFired = true
			if fnFired {
				sub(latestFn(latestValue))
			}
		})
	}
}

// ApFirst combines fa and fb like Ap and keeps the value from fa.
func ApFirst[A, B any](fa Event[A], fb Event[B]) Event[A] {
	return Ap(Map(fa, func(a A) func(B) A {
		return func(B) A { return a }
	}), fb)
}

// ApSecond combines fa and fb like Ap and keeps the value from fb.
func ApSecond[A, B any](fa Event[A], fb Event[B]) Event[B] {
	return Ap(Map(fa, func(A) func(B) B {
		return func(b B) B { return b }
	}), fb)
}

// Alt delivers everything primary delivers, then everything fallback()
// delivers. fallback is called once per subscription, after primary returns.
func Alt[A any](primary Event[A], fallback func() Event[A]) Event[A] {
	return func(sub Subscriber[A]) {
		primary.Subscribe(sub)
		fallback().Subscribe(sub)
	}
}

// Zero is the identity for Alt.
func Zero[A any]() Event[A] {
	return Empty[A]()
}
