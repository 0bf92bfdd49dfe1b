// Package result provides an explicit success/failure algebra for operations
// with expected, typed failure modes.
//
// A Result[T, E] is always in exactly one of two variants:
//   - Success, holding a value of type T
//   - Failure, holding an error value of type E
//
// Design Philosophy:
//   - Expected failures travel as values, not as Go errors threaded through
//     every return site. Callers compose steps with Map/FlatMap and leave the
//     Result world exactly once, through Fold or GetOrElse.
//   - Unexpected programming faults (panics) are NOT modeled here; they
//     propagate as genuine faults.
//   - Try is the single sanctioned boundary where an error-returning call is
//     converted into a Failure value.
//
// Go methods cannot introduce new type parameters, so combinators that change
// the value type (Map, FlatMap, Fold) are package functions over the type
// rather than methods.
package result

// Result is a closed sum type: either Success with a value or Failure with an
// error. The zero value is a Failure holding E's zero value; construct through
// Success/Failure rather than relying on it.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success wraps a value in the success variant.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Failure wraps an error value in the failure variant.
func Failure[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// IsSuccess reports whether r is the success variant.
func (r Result[T, E]) IsSuccess() bool { return r.ok }

// IsFailure reports whether r is the failure variant.
func (r Result[T, E]) IsFailure() bool { return !r.ok }

// Value returns the wrapped value and whether r is Success.
func (r Result[T, E]) Value() (T, bool) { return r.value, r.ok }

// Err returns the wrapped error value and whether r is Failure.
func (r Result[T, E]) Err() (E, bool) { return r.err, !r.ok }

// GetOrElse returns the wrapped value for Success, or def for Failure.
// It never fails.
func (r Result[T, E]) GetOrElse(def T) T {
	if r.ok {
		return r.value
	}
	return def
}

// Map applies f to the success value and rewraps it. On Failure the error is
// carried through unchanged and f is never invoked. f must be total; if f can
// itself fail, use FlatMap and return a Result from it.
func Map[T, U, E any](r Result[T, E], f func(T) U) Result[U, E] {
	if !r.ok {
		return Failure[U, E](r.err)
	}
	return Success[U, E](f(r.value))
}

// FlatMap is monadic bind: f runs only on the success variant and its Result
// is returned directly, so each step of a chain can fail on its own.
func FlatMap[T, U, E any](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	if !r.ok {
		return Failure[U, E](r.err)
	}
	return f(r.value)
}

// Fold eliminates a Result into an ordinary value. Exactly one of the two
// callbacks is invoked. This is the canonical exit from the Result world,
// e.g. into a response body or a log line.
func Fold[T, E, R any](r Result[T, E], onFailure func(E) R, onSuccess func(T) R) R {
	if !r.ok {
		return onFailure(r.err)
	}
	return onSuccess(r.value)
}

// Partition splits results into all success values and all failure values,
// preserving the relative order within each group. The whole input is
// processed; there is no short-circuiting.
func Partition[T, E any](rs []Result[T, E]) ([]T, []E) {
	var values []T
	var errs []E
	for _, r := range rs {
		if r.ok {
			values = append(values, r.value)
		} else {
			errs = append(errs, r.err)
		}
	}
	return values, errs
}

// Sequence is all-or-nothing: if every element is Success it returns Success
// of the full value list in order; if any element is Failure it returns
// Failure carrying every failure encountered, not just the first, so callers
// see the complete error set in one shot.
func Sequence[T, E any](rs []Result[T, E]) Result[[]T, []E] {
	values := make([]T, 0, len(rs))
	var errs []E
	for _, r := range rs {
		if r.ok {
			values = append(values, r.value)
		} else {
			errs = append(errs, r.err)
		}
	}
	if len(errs) > 0 {
		return Failure[[]T, []E](errs)
	}
	return Success[[]T, []E](values)
}

// Try executes f and wraps its outcome: a nil error becomes Success of the
// returned value, a non-nil error is passed through mapErr and becomes
// Failure. The error never escapes Try. This is the one place plain Go errors
// are converted into the algebra; everywhere else, expected failures should
// already be Results.
func Try[T, E any](f func() (T, error), mapErr func(error) E) Result[T, E] {
	v, err := f()
	if err != nil {
		return Failure[T, E](mapErr(err))
	}
	return Success[T, E](v)
}
