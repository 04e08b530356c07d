package event

import (
	"errors"

	"eventflow/pkg/either"
	"eventflow/pkg/option"
)

// Applicative is what Traverse needs from an effect. FB is the effect around
// a single B, FS the effect around the accumulated []B and FE the effect
// around the resulting Event[B].
type Applicative[B, FB, FS, FE any] interface {
	// Pure lifts an accumulator into the effect.
	Pure(bs []B) FS
	// Map2 combines an effectful accumulator with one more effectful item.
	Map2(fs FS, fb FB, f func([]B, B) []B) FS
	// Map rewraps the final accumulator.
	Map(fs FS, f func([]B) Event[B]) FE
}

// Traverse materializes e, applies f to each item and combines the effects
// left to right, returning the effect around a producer of the results. e must
// be finite.
func Traverse[A, B, FB, FS, FE any](app Applicative[B, FB, FS, FE], e Event[A], f func(A) FB) FE {
	as := ToSlice(e)
	acc := app.Pure(make([]B, 0, len(as)))
	for _, a := range as {
		acc = app.Map2(acc, f(a), appendItem[B])
	}
	return app.Map(acc, From[B])
}

// Sequence turns a producer of effects into an effect around a producer.
func Sequence[B, FB, FS, FE any](app Applicative[B, FB, FS, FE], e Event[FB]) FE {
	return Traverse(app, e, func(fb FB) FB { return fb })
}

// Unfold delivers the items step yields, starting from seed, until step
// reports ok == false. step runs again from seed on every subscription and
// must eventually stop.
func Unfold[S, A any](seed S, step func(S) (item A, next S, ok bool)) Event[A] {
	return func(sub Subscriber[A]) {
		s := seed
		for {
			a, next, ok := step(s)
			if !ok {
				return
			}
			sub(a)
			s = next
		}
	}
}

func appendItem[B any](bs []B, b B) []B {
	return append(bs, b)
}

type optionApplicative[B any] struct{}

// OptionApplicative succeeds only when every item is present.
func OptionApplicative[B any]() Applicative[B, option.Option[B], option.Option[[]B], option.Option[Event[B]]] {
	return optionApplicative[B]{}
}

func (optionApplicative[B]) Pure(bs []B) option.Option[[]B] {
	return option.Some(bs)
}

func (optionApplicative[B]) Map2(fs option.Option[[]B], fb option.Option[B], f func([]B, B) []B) option.Option[[]B] {
	bs, ok := fs.Get()
	if !ok {
		return fs
	}
	b, ok := fb.Get()
	if !ok {
		return option.None[[]B]()
	}
	return option.Some(f(bs, b))
}

func (optionApplicative[B]) Map(fs option.Option[[]B], f func([]B) Event[B]) option.Option[Event[B]] {
	return option.Map(fs, f)
}

type eitherApplicative[L, B any] struct{}

// EitherApplicative succeeds only when every item is Right and otherwise
// keeps the first Left.
func EitherApplicative[L, B any]() Applicative[B, either.Either[L, B], either.Either[L, []B], either.Either[L, Event[B]]] {
	return eitherApplicative[L, B]{}
}

func (eitherApplicative[L, B]) Pure(bs []B) either.Either[L, []B] {
	return either.Right[L](bs)
}

func (eitherApplicative[L, B]) Map2(fs either.Either[L, []B], fb either.Either[L, B], f func([]B, B) []B) either.Either[L, []B] {
	bs, ok := fs.RightValue()
	if !ok {
		return fs
	}
	b, ok := fb.RightValue()
	if !ok {
		l, _ := fb.LeftValue()
		return either.Left[L, []B](l)
	}
	return either.Right[L](f(bs, b))
}

func (eitherApplicative[L, B]) Map(fs either.Either[L, []B], f func([]B) Event[B]) either.Either[L, Event[B]] {
	return either.Map(fs, f)
}

type validationApplicative[B any] struct{}

// ValidationApplicative succeeds only when every item is Right and otherwise
// joins every Left error, in order, with errors.Join.
func ValidationApplicative[B any]() Applicative[B, either.Either[error, B], either.Either[error, []B], either.Either[error, Event[B]]] {
	return validationApplicative[B]{}
}

func (validationApplicative[B]) Pure(bs []B) either.Either[error, []B] {
	return either.Right[error](bs)
}

func (validationApplicative[B]) Map2(fs either.Either[error, []B], fb either.Either[error, B], f func([]B, B) []B) either.Either[error, []B] {
	accErr, accFailed := fs.LeftValue()
	itemErr, itemFailed := fb.LeftValue()
	switch {
	case accFailed && itemFailed:
		return either.Left[error, []B](errors.Join(accErr, itemErr))
	case accFailed:
		return fs
	case itemFailed:
		return either.Left[error, []B](itemErr)
	}
	bs, _ := fs.RightValue()
	b, _ := fb.RightValue()
	return either.Right[error](f(bs, b))
}

func (validationApplicative[B]) Map(fs either.Either[error, []B], f func([]B) Event[B]) either.Either[error, Event[B]] {
	return either.Map(fs, f)
}
