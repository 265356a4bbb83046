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
	"fmt"

	"github.com/botobag/concurrent"

	"github.com/pkg/errors"
)

// Future is a read-only handle to a Result that becomes available at some
// point. A Future never exposes a write operation; multiple Futures may be
// derived from one completion cell without their completions interfering.
type Future[T any] interface {
	// Executor returns the executor the future's callbacks run on. Futures
	// derived through combinators inherit it.
	Executor() concurrent.Executor

	// Done returns a channel that is closed when the future completes. It makes
	// every Future an Awaitable for BlockOn and Sync.
	Done() <-chan struct{}

	// Completed reports whether the future has reached a terminal state. It
	// never blocks.
	Completed() bool

	// Result returns the terminal Result, or false if the future is still
	// pending. It never blocks.
	Result() (Result[T], bool)

	// OnResult registers a callback invoked with the value if the future
	// completes successfully. The callback always runs on the executor, never
	// synchronously on the registering goroutine.
	OnResult(fn func(T))

	// OnException registers a callback invoked with the error if the future
	// fails.
	OnException(fn func(error))

	// OnComplete registers a callback invoked on either outcome, receiving the
	// terminal future itself.
	OnComplete(fn func(Future[T]))

	// Foreach registers a side-effecting callback invoked only on success. It is
	// a fire-and-forget read; no future is derived.
	Foreach(fn func(T))

	// Filter derives a future that completes with the same value if pred holds,
	// with an ErrPredicateNotSatisfied failure if it doesn't, and with the
	// upstream failure unchanged if the upstream fails (pred is not invoked).
	Filter(pred func(T) bool) Future[T]
}

// Map derives a future that completes with fn applied to the upstream value.
// An error returned (or a panic raised) by fn becomes the failure of the
// derived future; an upstream failure propagates unchanged and fn is never
// invoked. Map returns immediately and never blocks.
//
// Map is a package-level function rather than a method because the result type
// differs from the source type and Go methods cannot introduce type
// parameters.
func Map[T, U any](f Future[T], fn func(T) (U, error)) Future[U] {
	next := newCell[U](f.Executor())
	f.OnComplete(func(f Future[T]) {
		result, _ := f.Result()
		if !result.Succeeded() {
			_ = next.complete(Failure[U](result.Err()))
			return
		}
		_ = next.complete(capture(func() (U, error) {
			return fn(result.Value())
		}))
	})
	return next
}

// FlatMap derives a future from the future returned by fn, flattening one
// level: the derived future completes with whatever the inner future completes
// with. An upstream failure propagates unchanged and fn is never invoked; an
// error or panic from fn becomes the failure of the derived future.
func FlatMap[T, U any](f Future[T], fn func(T) (Future[U], error)) Future[U] {
	next := newCell[U](f.Executor())
	f.OnComplete(func(f Future[T]) {
		result, _ := f.Result()
		if !result.Succeeded() {
			_ = next.complete(Failure[U](result.Err()))
			return
		}

		inner := capture(func() (Future[U], error) {
			return fn(result.Value())
		})
		if !inner.Succeeded() {
			_ = next.complete(Failure[U](inner.Err()))
			return
		}
		innerFuture := inner.Value()
		if innerFuture == nil {
			_ = next.complete(Failure[U](errors.New("future: FlatMap function returned a nil future")))
			return
		}

		innerFuture.OnComplete(func(inner Future[U]) {
			result, _ := inner.Result()
			_ = next.complete(result)
		})
	})
	return next
}

// capture invokes fn and folds its outcome into a Result. A panic raised by fn
// is recovered and wrapped with ErrPanic; it never escapes to the executor
// worker running the callback.
func capture[U any](fn func() (U, error)) (result Result[U]) {
	defer func() {
		if v := recover(); v != nil {
			result = Failure[U](fmt.Errorf("%w: %v", ErrPanic, v))
		}
	}()

	value, err := fn()
	if err != nil {
		return Failure[U](err)
	}
	return Success(value)
}
