package outcome

import (
	"errors"
	"fmt"
)

// Optional holds a value that may be absent. the zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Get returns the held value. calling Get on an absent Optional is a
// caller bug and panics.
func (o Optional[T]) Get() T {
	if !o.present {
		panic("outcome: Get called on an absent Optional")
	}
	return o.value
}

func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

// Try holds either a value or the error that prevented producing it.
type Try[T any] struct {
	value T
	err   error
}

func Ok[T any](value T) Try[T] {
	return Try[T]{value: value}
}

func Err[T any](err error) Try[T] {
	return Try[T]{err: err}
}

// Wrap converts a conventional (value, error) pair into a Try.
func Wrap[T any](value T, err error) Try[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// Do runs fn and converts a panic inside it into the error case.
// a non-error panic value is stringified.
func Do[T any](fn func() T) (result Try[T]) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok {
			result = Err[T](err)
			return
		}
		result = Err[T](fmt.Errorf("panic: %v", r))
	}()
	return Ok(fn())
}

// CatchOnly runs fn and captures only errors matching kind E into the
// returned Try. an unrelated error is returned as the second value and
// the Try must be ignored in that case.
func CatchOnly[T any, E error](fn func() (T, error)) (Try[T], error) {
	value, err := fn()
	if err == nil {
		return Ok(value), nil
	}
	var target E
	if errors.As(err, &target) {
		return Err[T](err), nil
	}
	return Try[T]{}, err
}

func (t Try[T]) IsOk() bool {
	return t.err == nil
}

func (t Try[T]) Err() error {
	return t.err
}

// Value returns the held value. calling Value on a failed Try is a
// caller bug and panics.
func (t Try[T]) Value() T {
	if t.err != nil {
		panic(fmt.Sprintf("outcome: Value called on a failed Try: %v", t.err))
	}
	return t.value
}

func (t Try[T]) Unwrap() (T, error) {
	return t.value, t.err
}

// Result reports whether a stage of work succeeded.
type Result struct {
	err error
}

func OK() Result {
	return Result{}
}

func Fail(err error) Result {
	return Result{err: err}
}

func (r Result) IsOk() bool {
	return r.err == nil
}

func (r Result) Err() error {
	return r.err
}

// And runs next only when r succeeded, so a chain of stages
// short-circuits at its first failure.
func (r Result) And(next func() Result) Result {
	if r.err != nil {
		return r
	}
	return next()
}
