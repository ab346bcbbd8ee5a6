// Package result holds the success-or-error value returned by every operation that talks to
// the backend. A failed Result always carries an *errors.Error so callers can branch on Kind.
package result

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
)

type Result[T any] struct {
	Data T
	Err  *apperrors.Error
}

// OK wraps a successful value.
func OK[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail wraps err, tagging untagged errors as internal.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: tag(err)}
}

// Of converts a (value, error) pair.
func Of[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return OK(data)
}

// Run calls fn and converts its outcome, including a panic, into a Result.
func Run[T any](fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: apperrors.New(apperrors.KindInternal, fmt.Sprintf("unexpected failure: %v", r), apperrors.ErrInternal)}
		}
	}()
	return Of(fn())
}

// Map converts the data of a successful Result, passing failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.Err != nil {
		return Result[U]{Err: r.Err}
	}
	return OK(fn(r.Data))
}

func (r Result[T]) Success() bool {
	return r.Err == nil
}

// Error returns the user facing message, or "" on success.
func (r Result[T]) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r Result[T]) Kind() apperrors.Kind {
	if r.Err == nil {
		return apperrors.KindInternal
	}
	return r.Err.Kind
}

// Unpack returns the pair form, for callers that prefer explicit error returns.
func (r Result[T]) Unpack() (T, error) {
	if r.Err != nil {
		return r.Data, r.Err
	}
	return r.Data, nil
}

func tag(err error) *apperrors.Error {
	if err == nil {
		return apperrors.New(apperrors.KindInternal, "", apperrors.ErrInternal)
	}
	var e *apperrors.Error
	if apperrors.As(err, &e) {
		return e
	}
	return apperrors.New(apperrors.KindInternal, err.Error(), err)
}
