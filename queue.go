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

package concurrent

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrQueueClosed is returned by Push to indicate the queue cannot accept the
	// new task because it is closed.
	ErrQueueClosed = errors.New("queue: closed")

	// ErrQueuePollTimeout is returned by Poll to indicate the poll doesn't find a
	// task within timeout.
	ErrQueuePollTimeout = errors.New("queue: poll timeout")

	// ErrTaskNotFound is returned by Remove to indicate the given task is not in
	// the queue.
	ErrTaskNotFound = errors.New("queue: given task is not found in the queue")
)

// Queue stores tasks that are waiting for execution. Implementation to the
// interfaces should be thread-safe. That is, they need to allow concurrent
// accesses.
type Queue interface {
	// Push inserts the specified task into this queue. Return nil if the task is
	// successfully inserted. Note that task cannot be nil.
	Push(task Task) error

	// Poll pops one task from the head of this queue. A zero or negative timeout
	// blocks until a task is available (or the queue is closed); a positive
	// timeout returns ErrQueuePollTimeout if no task arrives in time.
	Poll(timeout time.Duration) (Task, error)

	// Remove removes the given task from queue. An executor uses this to pull
	// back a task that was queued concurrently with a shutdown request and can
	// no longer be executed.
	Remove(task Task) error

	// Empty returns true if the queue contains no tasks.
	Empty() bool

	// Close stops queue to accept new tasks. Tasks that are submitted to the
	// queue are still available via Poll. Calls to Push will return
	// ErrQueueClosed. Once the queue becomes empty, any calls to Poll will
	// immediately return with nil.
	Close()
}
