/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package future

import (
	"sync/atomic"

	"github.com/botobag/concurrent"

	"github.com/pkg/errors"
)

// The aggregate operators combine a collection of futures into one. They are
// built entirely from the Future/Promise primitives: each attaches one
// callback per input which records the value into an indexed slot and
// decrements an atomic remaining counter; the last one to settle completes
// the operator's own cell. An indexed slot array (not a concurrent append)
// keeps result order equal to input order no matter the completion order.
//
// On a dependency failure the operator completes immediately with that error.
// When several dependencies fail concurrently, exactly one error wins (the
// first observed); the rest lose the one-time completion race and are
// discarded.

// Sequence completes with the values of all input futures, in input order,
// once every input has completed successfully; it fails with the first
// observed input failure. An empty input completes immediately with an empty
// slice.
func Sequence[T any](executor concurrent.Executor, futures []Future[T]) Future[[]T] {
	c := newCell[[]T](executor)

	n := len(futures)
	if n == 0 {
		_ = c.complete(Success([]T{}))
		return c
	}

	values := make([]T, n)
	remaining := int64(n)

	for i, f := range futures {
		i := i
		f.OnComplete(func(f Future[T]) {
			result, _ := f.Result()
			if !result.Succeeded() {
				_ = c.complete(Failure[[]T](result.Err()))
				return
			}

			// Each slot is written by exactly one callback; the final decrement
			// orders every write before the completion below.
			values[i] = result.Value()
			if atomic.AddInt64(&remaining, -1) == 0 {
				_ = c.complete(Success(values))
			}
		})
	}

	return c
}

// Fold completes with op applied left to right over zero and the input values
// in input order: op(...op(op(zero, v0), v1)..., vn-1). op is not assumed
// commutative or associative. A panicking op fails the result; any input
// failure fails it with that error. An empty input completes with zero.
func Fold[T, A any](
	executor concurrent.Executor,
	zero A,
	futures []Future[T],
	op func(A, T) A) Future[A] {

	return Map(Sequence(executor, futures), func(values []T) (A, error) {
		acc := zero
		for _, value := range values {
			acc = op(acc, value)
		}
		return acc, nil
	})
}

// Reduce is the seedless left fold: v0 starts the accumulator and v1..vn-1
// fold into it in input order. An empty input fails with ErrEmptyReduce before
// any input is subscribed to.
func Reduce[T any](
	executor concurrent.Executor,
	futures []Future[T],
	op func(T, T) T) Future[T] {

	if len(futures) == 0 {
		c := newCell[T](executor)
		_ = c.complete(Failure[T](ErrEmptyReduce))
		return c
	}

	return Map(Sequence(executor, futures), func(values []T) (T, error) {
		acc := values[0]
		for _, value := range values[1:] {
			acc = op(acc, value)
		}
		return acc, nil
	})
}

// Traverse applies fn to each input element in input order to obtain one
// future per element, then behaves exactly as Sequence over them: the result
// order matches the input order even though the derived futures may complete
// in any order. A panicking fn (or one returning a nil future) contributes an
// immediately failed element.
func Traverse[A, B any](
	executor concurrent.Executor,
	inputs []A,
	fn func(A) Future[B]) Future[[]B] {

	futures := make([]Future[B], len(inputs))
	for i, input := range inputs {
		input := input
		element := capture(func() (Future[B], error) {
			return fn(input), nil
		})

		switch {
		case !element.Succeeded():
			futures[i] = failed[B](executor, element.Err())
		case element.Value() == nil:
			futures[i] = failed[B](executor, errors.New("future: Traverse function returned a nil future"))
		default:
			futures[i] = element.Value()
		}
	}

	return Sequence(executor, futures)
}

// Find completes with Some of the satisfying value of the lowest input index,
// once all inputs have completed, or with None when no value satisfies pred.
// It fails with the first observed input failure. Waiting for all completions
// (rather than short-circuiting on a satisfying prefix) keeps the reported
// element deterministic: it is always the lowest-index match.
func Find[T any](
	executor concurrent.Executor,
	futures []Future[T],
	pred func(T) bool) Future[Option[T]] {

	c := newCell[Option[T]](executor)

	n := len(futures)
	if n == 0 {
		_ = c.complete(Success(None[T]()))
		return c
	}

	values := make([]T, n)
	remaining := int64(n)

	for i, f := range futures {
		i := i
		f.OnComplete(func(f Future[T]) {
			result, _ := f.Result()
			if !result.Succeeded() {
				_ = c.complete(Failure[Option[T]](result.Err()))
				return
			}

			values[i] = result.Value()
			if atomic.AddInt64(&remaining, -1) != 0 {
				return
			}

			// All inputs settled successfully; scan slots from index 0.
			_ = c.complete(capture(func() (Option[T], error) {
				for _, value := range values {
					if pred(value) {
						return Some(value), nil
					}
				}
				return None[T](), nil
			}))
		})
	}

	return c
}

// failed creates a future that is already completed with err.
func failed[T any](executor concurrent.Executor, err error) Future[T] {
	c := newCell[T](executor)
	_ = c.complete(Failure[T](err))
	return c
}
