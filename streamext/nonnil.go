// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"reflect"

	"github.com/joamaki/streamext/stream"
)

// FilterNonNil drops the nil items from 'src'. An item is nil if it is a nil
// interface or a nil pointer, map, slice, channel or function.
func FilterNonNil[T any](src stream.Observable[T]) stream.Observable[T] {
	return stream.Filter(src, func(item T) bool { return !isNil(item) })
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
