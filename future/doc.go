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

// Package future provides a composable future/promise primitive on top of a
// concurrent.Executor.
//
// A Future is a read-only handle to a Result that becomes available at some
// point; a Promise is the write-once handle that supplies it. Both views share
// a single-assignment completion cell: once the cell transitions from pending
// to completed it never changes again, every callback registered before the
// transition runs exactly once, and a callback registered afterwards is
// scheduled immediately (also exactly once).
//
// Callbacks never run synchronously on the goroutine that registers them or on
// the one that completes the promise; they are always submitted to the
// Executor the future is bound to. The sole blocking operations are BlockOn
// and Sync; everything else is callback-driven.
//
// Futures compose through Map, FlatMap and Filter, which derive new futures
// without blocking, and through the aggregate operators Sequence, Fold,
// Reduce, Traverse and Find, which combine many futures into one while
// preserving input order regardless of completion order. User functions passed
// to any of these never fail synchronously: an error return or a panic becomes
// the failure of the derived future.
package future
