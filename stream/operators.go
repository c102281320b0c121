// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Map applies a function onto an observable.
func Map[A, B any](src Observable[A], apply func(A) B) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, next func(B) error) error {
			return src.Observe(
				ctx,
				func(a A) error { return next(apply(a)) })
		})
}

// FlatMap applies a function that returns an observable of Bs to the source observable of As.
// The observable from the function is flattened (hence FlatMap). Each inner observable
// is observed to completion before the next item from the source is processed.
func FlatMap[A, B any](src Observable[A], apply func(A) Observable[B]) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, next func(B) error) error {
			return src.Observe(
				ctx,
				func(a A) error {
					return apply(a).Observe(ctx, next)
				})
		})
}

// Filter keeps only the elements for which the filter function returns true.
func Filter[T any](src Observable[T], filter func(T) bool) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return src.Observe(
				ctx,
				func(x T) error {
					if filter(x) {
						return next(x)
					}
					return nil
				})
		})
}

// Concat takes one or more observable of the same type and emits the items from each of
// them in order. An error from any of them stops the stream.
func Concat[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			for _, src := range srcs {
				if err := src.Observe(ctx, next); err != nil {
					return err
				}
			}
			return nil
		})
}

// Last emits the last item of 'src' once it completes. Nothing is
// emitted if 'src' fails or completes without items.
func Last[T any](src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			var (
				last T
				seen bool
			)
			err := src.Observe(
				ctx,
				func(item T) error {
					last, seen = item, true
					return nil
				})
			if err != nil || !seen {
				return err
			}
			return next(last)
		})
}

// Catch observes 'src' and, if it fails, continues with the observable
// returned by 'handler' for the error. Items emitted before the failure are
// kept. Errors returned by 'next' and errors after 'ctx' has been cancelled
// are not handed to 'handler'.
func Catch[T any](src Observable[T], handler func(error) Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			var nextErr error
			err := src.Observe(
				ctx,
				func(item T) error {
					nextErr = next(item)
					return nextErr
				})
			if err == nil || nextErr != nil || ctx.Err() != nil {
				return err
			}
			return handler(err).Observe(ctx, next)
		})
}

type mergeNext[T any] struct {
	item T
	errs chan error
}

// Merge multiple observables into one. Error from any one of the sources will
// cancel and complete the stream. Error from downstream is propagated to the
// upstream that emitted the item.
//
// The sources are observed from goroutines spawned by Merge, but 'next' is
// still only called from the goroutine calling Observe().
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			g, mergeCtx := errgroup.WithContext(ctx)
			items := make(chan mergeNext[T])

			for _, src := range srcs {
				g.Go(func() error {
					nextErrs := make(chan error, 1)
					return src.Observe(
						mergeCtx,
						func(item T) error {
							select {
							case items <- mergeNext[T]{item, nextErrs}:
							case <-mergeCtx.Done():
								return mergeCtx.Err()
							}
							return <-nextErrs
						})
				})
			}

			done := make(chan error, 1)
			go func() {
				done <- g.Wait()
				close(items)
			}()

			// Feed downstream until all sources are done. Once 'next' fails
			// it is not called again and the failure is handed to any
			// source still trying to emit.
			var nextErr error
			for req := range items {
				if nextErr == nil {
					nextErr = next(req.item)
				}
				req.errs <- nextErr
			}
			return <-done
		})
}

// OnNext calls the supplied function on each emitted item.
func OnNext[T any](src Observable[T], f func(T)) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return src.Observe(
				ctx,
				func(item T) error {
					f(item)
					return next(item)
				})
		})
}

// Take takes 'n' items from the source 'src'.
// The context given to source observable is cancelled once 'n' items
// have been emitted and the resulting cancelled error is ignored.
func Take[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			if n <= 0 {
				return ctx.Err()
			}
			subCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			remaining := n
			err := src.Observe(subCtx,
				func(item T) error {
					if remaining == 0 {
						return nil
					}
					if err := next(item); err != nil {
						return err
					}
					remaining--
					if remaining == 0 {
						cancel()
					}
					return nil
				})
			if remaining == 0 && errors.Is(err, context.Canceled) && ctx.Err() == nil {
				return nil
			}
			return err
		})
}

// Skip skips the first 'n' items from the source.
func Skip[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			skip := n
			return src.Observe(ctx,
				func(item T) error {
					if skip > 0 {
						skip--
						return nil
					}
					return next(item)
				})
		})
}

// Throttle limits the rate at which items are emitted.
func Throttle[T any](src Observable[T], ratePerSecond float64, burst int) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)
			return src.Observe(
				ctx,
				func(item T) error {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
					return next(item)
				})
		})
}

// Delay holds back each item from source by the given duration as measured
// by 'clock'.
func Delay[T any](clock clockz.Clock, src Observable[T], duration time.Duration) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return src.Observe(
				ctx,
				func(item T) error {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-clock.After(duration):
					}
					return next(item)
				})
		})
}
