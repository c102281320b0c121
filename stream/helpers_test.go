// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkCancelled observes 'src' with a cancelled context and checks that
// it fails with context.Canceled without emitting anything.
func checkCancelled[T any](t *testing.T, src Observable[T]) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ToSlice(ctx, src)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, result)
}

// fromCallback creates an observable that is fed by the returned 'emit' function
// and terminated by 'complete'.
// Useful in tests, but unsafe in general as this creates an hot observable that only has
// sane behaviour with single observer.
func fromCallback[T any](bufSize int) (emit func(T), complete func(error), obs Observable[T]) {
	items := make(chan T, bufSize)
	errs := make(chan error, bufSize)

	emit = func(x T) {
		items <- x
	}

	complete = func(err error) {
		errs <- err
	}

	obs = FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case err := <-errs:
					return err
				case item := <-items:
					if err := next(item); err != nil {
						return err
					}
				}
			}
		})

	return
}

// countSubscriptions wraps 'src' and counts how many times it is observed.
func countSubscriptions[T any](src Observable[T], count *atomic.Int32) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			count.Add(1)
			return src.Observe(ctx, next)
		})
}
