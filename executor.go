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

// Task represents a unit of work that can be executed by an Executor.
//
// A Task carries no return value. Work that produces a result communicates it
// through other means; in particular, the future subpackage completes a
// Promise from within the Task body. This keeps the Executor surface minimal:
// it only guarantees eventual execution on some worker, preserving no
// particular ordering between unrelated submissions.
type Task interface {
	// Run performs the actions to complete the Task.
	Run()
}

// The TaskFunc type is an adapter to allow the use of ordinary functions as a
// Task.
type TaskFunc func()

// TaskFunc implements Task.
var _ Task = (TaskFunc)(nil)

// Run implements Task. It calls f().
func (f TaskFunc) Run() {
	f()
}

// Executor provides interfaces to manage and to execute tasks.
type Executor interface {
	// Shutdown shuts down the executor. Previously submitted tasks are executed
	// but no new tasks will be accepted. It is an no-op if the executor has
	// already shut down. It returns a channel which will receives a notification
	// from the Executor when all remaining tasks have completed after shutdown
	// request.
	Shutdown() (terminated <-chan bool, err error)

	// Submit submits a task for execution. The method only arranges task for
	// execution. The actual execution may occur sometime later. A non-nil error
	// indicates the task was rejected and will never run (e.g., because the
	// executor is shutting down).
	Submit(task Task) error
}
