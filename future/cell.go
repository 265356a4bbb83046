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
	"sync"

	"github.com/botobag/concurrent"
)

// cell is the single-assignment state shared between a Promise and the
// Futures derived from it. It holds either "pending" (with a list of waiting
// callbacks) or a terminal Result. The transition between the two happens at
// most once, inside the same critical section that guards callback
// registration: a registration that observes pending is queued before the
// transition, and one that observes completed is scheduled right away. Either
// way the callback fires exactly once.
type cell[T any] struct {
	executor concurrent.Executor

	// Lock that guards the pending/completed transition and waiters.
	mutex sync.Mutex

	// Closed exactly once, when the cell completes. Readers that observe the
	// close may read result without holding mutex.
	done chan struct{}

	completed bool
	result    Result[T]

	// Callbacks registered while pending. Scheduled in registration order on
	// completion, then never touched again.
	waiters []func(Result[T])
}

// cell implements Future.
var _ Future[int] = (*cell[int])(nil)

func newCell[T any](executor concurrent.Executor) *cell[T] {
	return &cell[T]{
		executor: executor,
		done:     make(chan struct{}),
	}
}

// complete transitions the cell from pending to completed and schedules every
// queued waiter on the executor. It returns ErrAlreadyCompleted if the cell
// has a result already; the existing result is kept.
func (c *cell[T]) complete(result Result[T]) error {
	mutex := &c.mutex
	mutex.Lock()

	if c.completed {
		mutex.Unlock()
		return ErrAlreadyCompleted
	}

	c.result = result
	c.completed = true
	waiters := c.waiters
	c.waiters = nil
	close(c.done)

	mutex.Unlock()

	// The cell is terminal at this point; nobody appends to waiters anymore, so
	// scheduling can happen outside the critical section.
	for _, waiter := range waiters {
		c.schedule(waiter, result)
	}

	return nil
}

// register queues waiter if the cell is pending, or schedules it immediately
// if the cell has completed. Either way the waiter runs exactly once, on the
// executor, never on the calling goroutine.
func (c *cell[T]) register(waiter func(Result[T])) {
	mutex := &c.mutex
	mutex.Lock()

	if !c.completed {
		c.waiters = append(c.waiters, waiter)
		mutex.Unlock()
		return
	}

	result := c.result
	mutex.Unlock()

	c.schedule(waiter, result)
}

// schedule hands the waiter to the executor. A rejected submission (the
// executor has shut down) drops the callback; the cell's result is unaffected.
func (c *cell[T]) schedule(waiter func(Result[T]), result Result[T]) {
	_ = c.executor.Submit(concurrent.TaskFunc(func() {
		waiter(result)
	}))
}

//===----------------------------------------------------------------------------------------====//
// Future view
//===----------------------------------------------------------------------------------------====//

// Executor implements Future.
func (c *cell[T]) Executor() concurrent.Executor {
	return c.executor
}

// Done implements Future (and Awaitable).
func (c *cell[T]) Done() <-chan struct{} {
	return c.done
}

// Completed implements Future.
func (c *cell[T]) Completed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Result implements Future. The result is written before done is closed, so a
// reader that observed the close may read it without taking mutex.
func (c *cell[T]) Result() (Result[T], bool) {
	if !c.Completed() {
		return Result[T]{}, false
	}
	return c.result, true
}

// OnResult implements Future.
func (c *cell[T]) OnResult(fn func(T)) {
	c.register(func(result Result[T]) {
		if result.Succeeded() {
			fn(result.Value())
		}
	})
}

// OnException implements Future.
func (c *cell[T]) OnException(fn func(error)) {
	c.register(func(result Result[T]) {
		if !result.Succeeded() {
			fn(result.Err())
		}
	})
}

// OnComplete implements Future.
func (c *cell[T]) OnComplete(fn func(Future[T])) {
	c.register(func(Result[T]) {
		fn(c)
	})
}

// Foreach implements Future.
func (c *cell[T]) Foreach(fn func(T)) {
	c.OnResult(fn)
}

// Filter implements Future.
func (c *cell[T]) Filter(pred func(T) bool) Future[T] {
	next := newCell[T](c.executor)
	c.register(func(result Result[T]) {
		_ = next.complete(filterResult(result, pred))
	})
	return next
}

// filterResult applies pred to a successful upstream result. A failed upstream
// result passes through unchanged; a rejected value or a panicking predicate
// becomes a failure.
func filterResult[T any](result Result[T], pred func(T) bool) Result[T] {
	if !result.Succeeded() {
		return result
	}

	satisfied := capture(func() (bool, error) {
		return pred(result.Value()), nil
	})
	switch {
	case !satisfied.Succeeded():
		return Failure[T](satisfied.Err())
	case satisfied.Value():
		return result
	default:
		return Failure[T](ErrPredicateNotSatisfied)
	}
}
