// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package stream implements push-based observable streams. An observable
// emits zero or more items to 'next' and then terminates: a nil return from
// Observe is completion, a non-nil return is failure. Cancelling the context
// given to Observe unsubscribes from the stream and all of its upstreams.
package stream

import (
	"context"
)

type Observable[T any] interface {
	// Observe subscribes to the stream of T's and blocks until it terminates.
	// 'next' is called on each item sequentially. If it returns an error the
	// stream closes and the same error is returned by Observe().
	// When 'ctx' is cancelled the stream closes and ctx.Err() is returned.
	//
	// Implementations must maintain the following invariants:
	// - Observe blocks until the stream and any upstreams are closed.
	// - 'next' is called from the goroutine that called Observe().
	// - 'next' is not called again after it has returned an error.
	//
	// Cancellation may be handled only after a running 'next' returns.
	Observe(ctx context.Context, next func(T) error) error
}

// FuncObservable implements Observable with a function.
type FuncObservable[T any] func(context.Context, func(T) error) error

func (f FuncObservable[T]) Observe(ctx context.Context, next func(T) error) error {
	return f(ctx, next)
}
