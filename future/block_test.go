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

package future_test

import (
	"time"

	"github.com/botobag/concurrent/future"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Blocking waits", func() {
	Describe("BlockOn", func() {
		It("returns once the awaitable completes", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			Expect(future.BlockOn(p, time.Second)).Should(Succeed())
		})

		It("returns ErrTimeout when the deadline passes first", func() {
			p := future.NewPromise[string](executor)

			start := time.Now()
			err := future.BlockOn(p, 20*time.Millisecond)
			Expect(err).Should(MatchError(future.ErrTimeout))
			Expect(time.Since(start)).Should(BeNumerically(">=", 20*time.Millisecond))
		})

		It("unblocks a waiter parked before completion", func() {
			p := future.NewPromise[string](executor)

			waiterDone := make(chan error, 1)
			go func() {
				waiterDone <- future.BlockOn(p, waitTimeout)
			}()

			Expect(p.CompleteWithResult("foo")).Should(Succeed())
			Eventually(waiterDone, waitTimeout).Should(Receive(BeNil()))
		})
	})

	Describe("Sync", func() {
		It("extracts the success value", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			Expect(future.Sync(p, time.Second)).Should(Equal("foo"))
		})

		It("surfaces the failure error to the caller", func() {
			testErr := errors.New("failed future")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithException(testErr)).Should(Succeed())

			_, err := future.Sync(p, time.Second)
			Expect(err).Should(MatchError(testErr))
		})

		It("returns ErrTimeout for a future that never completes", func() {
			p := future.NewPromise[string](executor)

			_, err := future.Sync(p, 20*time.Millisecond)
			Expect(err).Should(MatchError(future.ErrTimeout))
		})
	})
})
