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
	"strconv"
	"sync/atomic"

	"github.com/botobag/concurrent/future"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Future combinators", func() {
	Describe("Map", func() {
		It("maps a value through a function", func() {
			f1 := future.Submit(executor, func() (string, error) {
				return "Hello", nil
			})

			f2 := future.Map(f1, func(s string) (string, error) {
				return s + " World", nil
			})

			Expect(future.Sync(f2, waitTimeout)).Should(Equal("Hello World"))
		})

		It("can change the value type", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("1000")).Should(Succeed())

			n := future.Map[string, int](p, strconv.Atoi)

			Expect(future.Sync(n, waitTimeout)).Should(Equal(1000))
		})

		It("propagates the upstream failure without invoking the function", func() {
			testErr := errors.New("upstream failed")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithException(testErr)).Should(Succeed())

			var invoked int32
			mapped := future.Map(p, func(s string) (string, error) {
				atomic.AddInt32(&invoked, 1)
				return s, nil
			})

			_, err := future.Sync(mapped, waitTimeout)
			Expect(err).Should(MatchError(testErr))
			// The mapped future completed; the only chance for the function to run
			// has passed.
			Expect(atomic.LoadInt32(&invoked)).Should(Equal(int32(0)))
		})

		It("fails the derived future when the function returns an error", func() {
			testErr := errors.New("map failed")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			mapped := future.Map(p, func(string) (string, error) {
				return "", testErr
			})

			_, err := future.Sync(mapped, waitTimeout)
			Expect(err).Should(MatchError(testErr))
		})

		It("fails the derived future when the function panics", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			mapped := future.Map(p, func(string) (string, error) {
				panic("map panicked")
			})

			_, err := future.Sync(mapped, waitTimeout)
			Expect(err).Should(MatchError(future.ErrPanic))
			Expect(err.Error()).Should(ContainSubstring("map panicked"))
		})

		It("supports fan-out: independent futures derived from one upstream", func() {
			p := future.NewPromise[int](executor)

			doubled := future.Map(p, func(n int) (int, error) {
				return n * 2, nil
			})
			squared := future.Map(p, func(n int) (int, error) {
				return n * n, nil
			})

			Expect(p.CompleteWithResult(7)).Should(Succeed())

			Expect(future.Sync(doubled, waitTimeout)).Should(Equal(14))
			Expect(future.Sync(squared, waitTimeout)).Should(Equal(49))
			// The upstream still carries its own value.
			Expect(future.Sync[int](p, waitTimeout)).Should(Equal(7))
		})
	})

	Describe("FlatMap", func() {
		It("flattens the future returned by the function", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("1000")).Should(Succeed())

			n := future.FlatMap(p, func(s string) (future.Future[int], error) {
				inner := future.NewPromise[int](executor)
				value, err := strconv.Atoi(s)
				if err != nil {
					return nil, err
				}
				Expect(inner.CompleteWithResult(value)).Should(Succeed())
				return inner, nil
			})

			Expect(future.Sync(n, waitTimeout)).Should(Equal(1000))
			Expect(future.Sync[string](p, waitTimeout)).Should(Equal("1000"))
		})

		It("composes chains of depth greater than two", func() {
			f := future.Submit(executor, func() (int, error) {
				return 1, nil
			})

			addOne := func(n int) (future.Future[int], error) {
				return future.Submit(executor, func() (int, error) {
					return n + 1, nil
				}), nil
			}

			chained := future.FlatMap(future.FlatMap(future.FlatMap(f, addOne), addOne), addOne)

			Expect(future.Sync(chained, waitTimeout)).Should(Equal(4))
		})

		It("propagates the upstream failure without invoking the function", func() {
			testErr := errors.New("upstream failed")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithException(testErr)).Should(Succeed())

			var invoked int32
			flat := future.FlatMap(p, func(string) (future.Future[string], error) {
				atomic.AddInt32(&invoked, 1)
				return p, nil
			})

			_, err := future.Sync(flat, waitTimeout)
			Expect(err).Should(MatchError(testErr))
			Expect(atomic.LoadInt32(&invoked)).Should(Equal(int32(0)))
		})

		It("fails the derived future when the inner future fails", func() {
			testErr := errors.New("inner failed")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			flat := future.FlatMap(p, func(string) (future.Future[string], error) {
				inner := future.NewPromise[string](executor)
				Expect(inner.CompleteWithException(testErr)).Should(Succeed())
				return inner, nil
			})

			_, err := future.Sync(flat, waitTimeout)
			Expect(err).Should(MatchError(testErr))
		})

		It("fails the derived future when the function panics", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			flat := future.FlatMap(p, func(string) (future.Future[string], error) {
				panic("flatMap panicked")
			})

			_, err := future.Sync(flat, waitTimeout)
			Expect(err).Should(MatchError(future.ErrPanic))
		})
	})

	Describe("Filter", func() {
		It("passes a satisfying value through unchanged", func() {
			p := future.NewPromise[string](executor)

			filtered := p.Filter(func(s string) bool {
				return s == "foo"
			})

			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			Expect(future.Sync(filtered, waitTimeout)).Should(Equal("foo"))
			Expect(future.Sync[string](p, waitTimeout)).Should(Equal("foo"))
		})

		It("fails with ErrPredicateNotSatisfied on a rejected value", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("bar")).Should(Succeed())

			filtered := p.Filter(func(s string) bool {
				return s == "foo"
			})

			_, err := future.Sync(filtered, waitTimeout)
			Expect(err).Should(MatchError(future.ErrPredicateNotSatisfied))
		})

		It("propagates the upstream failure without invoking the predicate", func() {
			testErr := errors.New("upstream failed")
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithException(testErr)).Should(Succeed())

			var invoked int32
			filtered := p.Filter(func(string) bool {
				atomic.AddInt32(&invoked, 1)
				return true
			})

			_, err := future.Sync(filtered, waitTimeout)
			Expect(err).Should(MatchError(testErr))
			Expect(atomic.LoadInt32(&invoked)).Should(Equal(int32(0)))
		})

		It("fails the derived future when the predicate panics", func() {
			p := future.NewPromise[string](executor)
			Expect(p.CompleteWithResult("foo")).Should(Succeed())

			filtered := p.Filter(func(string) bool {
				panic("predicate panicked")
			})

			_, err := future.Sync(filtered, waitTimeout)
			Expect(err).Should(MatchError(future.ErrPanic))
		})
	})
})
