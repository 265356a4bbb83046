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
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyCompleted is returned by the completion operations on a Promise
	// whose underlying cell has already transitioned to a terminal state. The
	// cell keeps its first result; the losing completion has no effect.
	ErrAlreadyCompleted = errors.New("future: promise already completed")

	// ErrPredicateNotSatisfied is the failure cause of a future derived with
	// Filter when the upstream value does not satisfy the predicate.
	ErrPredicateNotSatisfied = errors.New("future: value does not satisfy predicate")

	// ErrEmptyReduce is the failure cause of a Reduce over an empty collection.
	ErrEmptyReduce = errors.New("future: reduce of empty future collection")

	// ErrTimeout is returned by BlockOn and Sync when the deadline passes before
	// the awaitable completes.
	ErrTimeout = errors.New("future: timeout while waiting for completion")

	// ErrPanic wraps the value recovered from a panicking user function. The
	// panic surfaces as the failure of the derived future, never as a panic on
	// an executor worker.
	ErrPanic = errors.New("future: function panicked")
)
