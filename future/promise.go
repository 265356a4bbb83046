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
	"github.com/botobag/concurrent"
)

// Promise is the write-once handle that completes a Future. It exposes every
// read operation of the Future it backs plus the one-time completion
// operations. A Promise can only be completed, never withdrawn: an unfulfilled
// Promise leaves its Future pending forever.
type Promise[T any] interface {
	Future[T]

	// Complete transitions the underlying cell to the given terminal Result. It
	// returns ErrAlreadyCompleted if the cell already has a result; the first
	// result is kept.
	Complete(result Result[T]) error

	// CompleteWithResult completes the promise successfully with value.
	CompleteWithResult(value T) error

	// CompleteWithException completes the promise with a failure carrying err.
	CompleteWithException(err error) error
}

// promise adds the write operations to the shared cell.
type promise[T any] struct {
	*cell[T]
}

var _ Promise[int] = promise[int]{}

// NewPromise creates a Promise backed by a fresh pending cell. Callbacks
// registered on it (or on futures derived from it) run on executor.
func NewPromise[T any](executor concurrent.Executor) Promise[T] {
	return promise[T]{newCell[T](executor)}
}

// Complete implements Promise.
func (p promise[T]) Complete(result Result[T]) error {
	return p.cell.complete(result)
}

// CompleteWithResult implements Promise.
func (p promise[T]) CompleteWithResult(value T) error {
	return p.cell.complete(Success(value))
}

// CompleteWithException implements Promise.
func (p promise[T]) CompleteWithException(err error) error {
	return p.cell.complete(Failure[T](err))
}
