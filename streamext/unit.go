// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package streamext provides convenience combinators on top of the stream
// package: nil filtering, completion signals, sequencing, a shared
// single-value future and error recovery that leaves unrecoverable errors
// alone. Each combinator is a composition of stream operators and returns a
// fresh observable.
package streamext

import (
	"github.com/joamaki/streamext/stream"
)

// Unit is a value carrying no information. It is emitted where only the
// occurrence of an event matters.
type Unit struct{}

// ToUnit emits a Unit for every item emitted by 'src'. The terminal state
// of 'src' is passed through.
func ToUnit[T any](src stream.Observable[T]) stream.Observable[Unit] {
	return stream.Map(src, func(T) Unit { return Unit{} })
}
