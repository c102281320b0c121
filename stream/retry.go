// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

//
// Retrying
//

// RetryFunc decides whether the processing should be retried for the given error
type RetryFunc func(err error) bool

// Retry resubscribes to the observable if it completes with an error.
// Downstream errors and cancellation are never retried.
func Retry[T any](src Observable[T], shouldRetry RetryFunc) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			for {
				var nextErr error
				err := src.Observe(
					ctx,
					func(item T) error {
						nextErr = next(item)
						return nextErr
					})
				if err == nil || nextErr != nil || ctx.Err() != nil || !shouldRetry(err) {
					return err
				}
			}
		})
}

// AlwaysRetry always asks for a retry regardless of the error.
func AlwaysRetry(err error) bool {
	return true
}

// BackoffRetry retries with an exponential backoff, sleeping on 'clock'.
func BackoffRetry(clock clockz.Clock, shouldRetry RetryFunc, minBackoff, maxBackoff time.Duration) RetryFunc {
	backoff := minBackoff
	return func(err error) bool {
		<-clock.After(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		return shouldRetry(err)
	}
}

// LimitRetries limits the number of retries with the given retry method.
// e.g. LimitRetries(BackoffRetry(clockz.RealClock, AlwaysRetry, time.Millisecond, time.Second), 5)
func LimitRetries(shouldRetry RetryFunc, numRetries int) RetryFunc {
	return func(err error) bool {
		if numRetries <= 0 {
			return false
		}
		numRetries--
		return shouldRetry(err)
	}
}
