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
	"time"
)

// Awaitable is anything that signals completion by closing a channel. Every
// Future is an Awaitable.
type Awaitable interface {
	Done() <-chan struct{}
}

// BlockOn parks the calling goroutine until the awaitable reaches a terminal
// state or timeout elapses, whichever comes first. It returns ErrTimeout if
// the deadline passes. No value is extracted; this is the wait for
// side-effect-only callers. A non-positive timeout waits forever.
//
// BlockOn and Sync are the only operations in this package that block; every
// other wait is expressed as a callback.
func BlockOn(awaitable Awaitable, timeout time.Duration) error {
	if timeout <= 0 {
		<-awaitable.Done()
		return nil
	}

	// time.Timer uses the monotonic clock, so a wall clock step cannot cut the
	// wait short or extend it.
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-awaitable.Done():
		return nil
	case <-timer.C:
		return ErrTimeout
	}
}

// Sync blocks like BlockOn, then extracts the outcome: the success value, the
// failure error, or ErrTimeout if the future did not complete in time.
func Sync[T any](f Future[T], timeout time.Duration) (T, error) {
	if err := BlockOn(f, timeout); err != nil {
		var zero T
		return zero, err
	}

	result, _ := f.Result()
	return result.Value(), result.Err()
}
