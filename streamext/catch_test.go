// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamext

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joamaki/streamext/stream"
)

// runtimeFault returns the runtime.Error of an out of range access.
func runtimeFault() (err error) {
	defer func() {
		err = recover().(runtime.Error)
	}()
	var xs []int
	i := 3
	_ = xs[i]
	return nil
}

func TestIsUnrecoverable(t *testing.T) {
	oops := errors.New("oops")

	testCases := []struct {
		name          string
		err           error
		unrecoverable bool
	}{
		{"nil", nil, false},
		{"plain", oops, false},
		{"wrapped plain", fmt.Errorf("doing things: %w", oops), false},
		{"runtime fault", runtimeFault(), true},
		{"wrapped runtime fault", fmt.Errorf("recovered: %w", runtimeFault()), true},
		{"canceled", context.Canceled, true},
		{"deadline", fmt.Errorf("waiting: %w", context.DeadlineExceeded), true},
		{"marked", MarkUnrecoverable(oops), true},
		{"wrapped marked", fmt.Errorf("outer: %w", MarkUnrecoverable(oops)), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.unrecoverable, IsUnrecoverable(tc.err))
		})
	}
}

func TestMarkUnrecoverable(t *testing.T) {
	require.NoError(t, MarkUnrecoverable(nil))

	oops := errors.New("oops")
	marked := MarkUnrecoverable(oops)
	require.ErrorIs(t, marked, oops)
	require.Equal(t, oops.Error(), marked.Error())
}

func TestCatchNonCriticalWith(t *testing.T) {
	ctx := context.TODO()

	oops := errors.New("oops")
	fatal := MarkUnrecoverable(errors.New("fatal"))

	fallbackCalls := 0
	fallback := stream.Defer(func() stream.Observable[int] {
		fallbackCalls++
		return stream.FromSlice([]int{10, 11, 12})
	})

	// 1. recoverable error: items so far and then the fallback
	result, err := stream.ToSlice(ctx, CatchNonCriticalWith(
		stream.Concat(stream.FromSlice([]int{1, 2}), stream.Error[int](oops)),
		fallback))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 10, 11, 12}, result)
	require.Equal(t, 1, fallbackCalls)

	// 2. unrecoverable error: items so far and then the original error
	fallbackCalls = 0
	result, err = stream.ToSlice(ctx, CatchNonCriticalWith(
		stream.Concat(stream.FromSlice([]int{1, 2}), stream.Error[int](fatal)),
		fallback))
	require.ErrorIs(t, err, fatal)
	require.Equal(t, []int{1, 2}, result)
	require.Zero(t, fallbackCalls)

	// 3. successful source is passed through
	result, err = stream.ToSlice(ctx, CatchNonCriticalWith(stream.Range(0, 3), fallback))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, result)
	require.Zero(t, fallbackCalls)

	// 4. a failing fallback fails the stream
	result, err = stream.ToSlice(ctx, CatchNonCriticalWith(
		stream.Error[int](oops),
		stream.Concat(stream.Just(5), stream.Error[int](fatal))))
	require.ErrorIs(t, err, fatal)
	require.Equal(t, []int{5}, result)

	// 5. cancellation is never replaced by the fallback
	checkCancelled(t, CatchNonCriticalWith(stream.Stuck[int](), fallback))
	require.Zero(t, fallbackCalls)
}

func TestCatchNonCritical(t *testing.T) {
	ctx := context.TODO()

	oops := errors.New("oops")

	// 1. handler gets the error
	var handled error
	handler := func(err error) stream.Observable[string] {
		handled = err
		return stream.Just("recovered")
	}
	result, err := stream.ToSlice(ctx, CatchNonCritical(
		stream.Concat(stream.Just("a"), stream.Error[string](fmt.Errorf("reading: %w", oops))),
		handler))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "recovered"}, result)
	require.ErrorIs(t, handled, oops)

	// 2. runtime faults are not handled
	handled = nil
	fault := runtimeFault()
	result, err = stream.ToSlice(ctx, CatchNonCritical(stream.Error[string](fault), handler))
	require.ErrorIs(t, err, fault)
	require.Empty(t, result)
	require.NoError(t, handled)

	// 3. downstream errors are not handled
	stop := errors.New("stop")
	err = CatchNonCritical(stream.FromSlice([]string{"a", "b"}), handler).
		Observe(ctx, func(string) error { return stop })
	require.ErrorIs(t, err, stop)
	require.NoError(t, handled)

	// 4. custom classifier
	result, err = stream.ToSlice(ctx, CatchNonCritical(
		stream.Error[string](oops),
		handler,
		WithClassifier(func(err error) bool { return errors.Is(err, oops) })))
	require.ErrorIs(t, err, oops)
	require.Empty(t, result)
	require.NoError(t, handled)

	result, err = stream.ToSlice(ctx, CatchNonCritical(
		stream.Error[string](MarkUnrecoverable(oops)),
		handler,
		WithClassifier(func(error) bool { return false })))
	require.NoError(t, err)
	require.Equal(t, []string{"recovered"}, result)
}
