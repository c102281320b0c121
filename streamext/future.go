// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"context"
	"log/slog"

	"github.com/joamaki/streamext/stream"
)

// FutureOption configures PublishAsSingleFuture.
type FutureOption func(*futureConfig)

type futureConfig struct {
	log *slog.Logger
}

// WithLogger logs the lifetime of the shared subscription to 'log'.
func WithLogger(log *slog.Logger) FutureOption {
	return func(cfg *futureConfig) {
		cfg.log = log
	}
}

// PublishAsSingleFuture subscribes to 'src' immediately and shares the
// subscription with all observers of the returned observable. Observers see
// only the last item of 'src', once it has completed, whether they subscribed
// before or after completion. A failure of 'src' is returned to every
// observer, and a 'src' that completes without items completes the observers
// without items. 'src' is observed exactly once.
//
// The shared subscription is started in a background goroutine before
// PublishAsSingleFuture returns, and so may begin just after the call. It
// does not wait for the first observer. The shared subscription lives until 'src' terminates or 'ctx' is
// cancelled. It is not tied to any observer: cancelling an observer only
// stops that observer. With context.Background() a 'src' that never
// completes keeps its subscription for the lifetime of the process.
func PublishAsSingleFuture[T any](ctx context.Context, src stream.Observable[T], opts ...FutureOption) stream.Observable[T] {
	var cfg futureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.log != nil {
		src = logTermination(cfg.log, src)
	}

	mcast, connect := stream.Multicast(
		stream.MulticastParams{BufferSize: 1, EmitLatest: true},
		stream.Last(src))
	go connect(ctx)

	return mcast
}

// logTermination logs the start and the termination of every subscription
// to 'src'. The termination is logged before it is seen downstream.
func logTermination[T any](log *slog.Logger, src stream.Observable[T]) stream.Observable[T] {
	return stream.FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			log.Debug("Shared subscription started")
			err := src.Observe(ctx, next)
			if err != nil {
				log.Warn("Shared subscription failed", "err", err)
			} else {
				log.Debug("Shared subscription completed")
			}
			return err
		})
}
