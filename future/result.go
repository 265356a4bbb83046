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

	"github.com/pkg/errors"
)

// Result is the terminal outcome of a Future: either a success carrying a
// value or a failure carrying an error. A Result is immutable once
// constructed. The zero value is a success holding the zero value of T.
type Result[T any] struct {
	value T
	err   error
}

// Success creates a Result carrying a value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure creates a Result carrying an error. err must be non-nil; a nil err
// is replaced with a generic error so a failed Result can never masquerade as
// a success.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("future: failure constructed with nil error")
	}
	return Result[T]{err: err}
}

// Succeeded returns true if the Result carries a value.
func (r Result[T]) Succeeded() bool {
	return r.err == nil
}

// Value returns the carried value. It is the zero value of T for a failed
// Result.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the carried error, or nil for a successful Result.
func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("failure: %s", r.err.Error())
	}
	return fmt.Sprintf("success: %v", r.value)
}
