// Package either provides a two-way tagged value. By convention Left carries
// the failure or "rejected" side and Right the success side.
package either

// Either holds exactly one of a Left value of type L or a Right value of type R.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left builds a left-tagged value.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// Right builds a right-tagged value.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// IsLeft reports whether the value is left-tagged.
func (e Either[L, R]) IsLeft() bool {
	return !e.isRight
}

// IsRight reports whether the value is right-tagged.
func (e Either[L, R]) IsRight() bool {
	return e.isRight
}

// LeftValue returns the left value and whether e is left-tagged.
func (e Either[L, R]) LeftValue() (L, bool) {
	return e.left, !e.isRight
}

// RightValue returns the right value and whether e is right-tagged.
func (e Either[L, R]) RightValue() (R, bool) {
	return e.right, e.isRight
}

// Map applies f to a right value.
func Map[L, R, T any](e Either[L, R], f func(R) T) Either[L, T] {
	if !e.isRight {
		return Left[L, T](e.left)
	}
	return Right[L](f(e.right))
}

// FromPredicate returns a function that tags a as Right when p(a) holds and
// as Left(onFalse(a)) otherwise.
func FromPredicate[L, A any](p func(A) bool, onFalse func(A) L) func(A) Either[L, A] {
	return func(a A) Either[L, A] {
		if p(a) {
			return Right[L](a)
		}
		return Left[L, A](onFalse(a))
	}
}

// FromError tags a non-nil err as Left and v as Right otherwise.
func FromError[R any](v R, err error) Either[error, R] {
	if err != nil {
		return Left[error, R](err)
	}
	return Right[error](v)
}
