// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"github.com/joamaki/streamext/stream"
)

// AsCompletion ignores the items of 'src' and emits a single Unit when it
// completes, also when it completes without items. If 'src' fails the error
// is returned and no Unit is emitted.
func AsCompletion[T any](src stream.Observable[T]) stream.Observable[Unit] {
	ignored := stream.FlatMap(src, func(T) stream.Observable[Unit] {
		return stream.Empty[Unit]()
	})
	return stream.Concat(ignored, stream.Just(Unit{}))
}

// ContinueWith observes 'src' only for its completion and then switches to
// the observable returned by 'selector'. 'selector' is called once per
// subscription after 'src' has completed, and not at all if 'src' fails.
func ContinueWith[T, R any](src stream.Observable[T], selector func() stream.Observable[R]) stream.Observable[R] {
	return stream.FlatMap(AsCompletion(src), func(Unit) stream.Observable[R] {
		return selector()
	})
}
