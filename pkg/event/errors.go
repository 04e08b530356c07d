package event

import (
	"errors"
	"fmt"

	"eventflow/pkg/either"
	"eventflow/pkg/option"
)

// ThrownError is the panic value used by ThrowError and the lifting helpers.
type ThrownError struct {
	err error
}

// Error returns the message of the raised error.
func (e *ThrownError) Error() string {
	return e.err.Error()
}

// Unwrap returns the raised error.
func (e *ThrownError) Unwrap() error {
	return e.err
}

// ThrowError aborts by panicking with a *ThrownError. An error value is
// carried as is; anything else is turned into an error holding its string
// form. It never returns.
func ThrowError[A any](v any) Event[A] {
	panic(toThrown(v))
}

func toThrown(v any) *ThrownError {
	switch t := v.(type) {
	case *ThrownError:
		return t
	case error:
		return &ThrownError{err: t}
	default:
		return &ThrownError{err: errors.New(fmt.Sprint(v))}
	}
}

// Catch runs fn and returns the error raised by ThrowError or one of the
// lifting helpers, if any. Other panics pass through.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		thrown, ok := r.(*ThrownError)
		if !ok {
			panic(r)
		}
		err = thrown
	}()

	fn()
	return nil
}

// FromOption returns a function lifting a present value into Of and raising
// onNone() for an absent one.
func FromOption[A any](onNone func() any) func(option.Option[A]) Event[A] {
	return func(o option.Option[A]) Event[A] {
		if a, ok := o.Get(); ok {
			return Of(a)
		}
		return ThrowError[A](onNone())
	}
}

// FromEither lifts a Right value into Of and raises a Left one.
func FromEither[L, A any](e either.Either[L, A]) Event[A] {
	if a, ok := e.RightValue(); ok {
		return Of(a)
	}
	l, _ := e.LeftValue()
	return ThrowError[A](l)
}

// FromPredicate returns a function lifting a into Of when p(a) holds and
// raising onFalse(a) otherwise.
func FromPredicate[A any](p func(A) bool, onFalse func(A) any) func(A) Event[A] {
	return func(a A) Event[A] {
		if p(a) {
			return Of(a)
		}
		return ThrowError[A](onFalse(a))
	}
}

// FilterOrElse passes through the items satisfying p and raises onFalse(a)
// at delivery time for the first item that does not.
func FilterOrElse[A any](e Event[A], p func(A) bool, onFalse func(A) any) Event[A] {
	return Chain(e, FromPredicate(p, onFalse))
}
