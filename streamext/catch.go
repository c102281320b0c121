// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"github.com/joamaki/streamext/stream"
)

// CatchOption configures CatchNonCritical and CatchNonCriticalWith.
type CatchOption func(*catchConfig)

type catchConfig struct {
	isUnrecoverable Classifier
}

// WithClassifier replaces IsUnrecoverable as the predicate deciding which
// errors are let through untouched.
func WithClassifier(c Classifier) CatchOption {
	return func(cfg *catchConfig) {
		cfg.isUnrecoverable = c
	}
}

// CatchNonCritical observes 'src' and, if it fails with a recoverable error,
// continues with the observable returned by 'handler'. Items emitted before
// the failure are kept. Unrecoverable errors are returned unchanged without
// calling 'handler'. Errors returned by the downstream observer are not
// intercepted.
func CatchNonCritical[T any](src stream.Observable[T], handler func(error) stream.Observable[T], opts ...CatchOption) stream.Observable[T] {
	cfg := catchConfig{isUnrecoverable: IsUnrecoverable}
	for _, opt := range opts {
		opt(&cfg)
	}
	return stream.Catch(src, func(err error) stream.Observable[T] {
		if cfg.isUnrecoverable(err) {
			return stream.Error[T](err)
		}
		return handler(err)
	})
}

// CatchNonCriticalWith is CatchNonCritical with a fixed fallback observable.
func CatchNonCriticalWith[T any](src stream.Observable[T], fallback stream.Observable[T], opts ...CatchOption) stream.Observable[T] {
	return CatchNonCritical(src, func(error) stream.Observable[T] { return fallback }, opts...)
}
