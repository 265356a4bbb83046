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

// Submit runs fn on the executor and returns a Future for its outcome. The
// caller is never blocked: the returned future completes with the value, the
// error, or the recovered panic of fn once it has run on a worker. If the
// executor rejects the submission (it has shut down), the future completes
// immediately with the rejection error.
func Submit[T any](executor concurrent.Executor, fn func() (T, error)) Future[T] {
	c := newCell[T](executor)
	if err := executor.Submit(concurrent.TaskFunc(func() {
		_ = c.complete(capture(fn))
	})); err != nil {
		_ = c.complete(Failure[T](err))
	}
	return c
}
