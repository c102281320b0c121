// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"context"
	"errors"
	"runtime"
)

// Classifier reports whether an error is unrecoverable and must never be
// replaced by a fallback.
type Classifier func(err error) bool

// IsUnrecoverable is the default Classifier. It reports true for:
//   - runtime faults, e.g. a recovered nil dereference or out of range
//     access (errors wrapping a runtime.Error),
//   - context.Canceled and context.DeadlineExceeded, since the observer is
//     going away and the operation was aborted,
//   - errors marked with MarkUnrecoverable, or implementing
//     interface{ Unrecoverable() bool } and returning true.
func IsUnrecoverable(err error) bool {
	if err == nil {
		return false
	}
	var rtErr runtime.Error
	if errors.As(err, &rtErr) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var marked interface{ Unrecoverable() bool }
	return errors.As(err, &marked) && marked.Unrecoverable()
}

type unrecoverableError struct {
	err error
}

func (e unrecoverableError) Error() string       { return e.err.Error() }
func (e unrecoverableError) Unwrap() error       { return e.err }
func (e unrecoverableError) Unrecoverable() bool { return true }

// MarkUnrecoverable wraps 'err' so that IsUnrecoverable reports true for
// it. errors.Is and errors.As still see through to 'err'. Returns nil for a
// nil 'err'.
func MarkUnrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return unrecoverableError{err}
}
