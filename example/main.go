// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/joamaki/streamext/stream"
	"github.com/joamaki/streamext/streamext"
)

var errFlaky = errors.New("flaky source")

// readings emits a few sensor readings, some of them missing, and then fails.
func readings() stream.Observable[*float64] {
	values := []*float64{ptr(20.5), nil, ptr(21.0), nil, ptr(21.7)}
	return stream.Concat(
		stream.Delay(clockz.RealClock, stream.FromSlice(values), 50*time.Millisecond),
		stream.Error[*float64](errFlaky))
}

func ptr(f float64) *float64 { return &f }

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Drop the missing readings and end the readings quietly when the
	// source fails.
	present := streamext.CatchNonCriticalWith(
		streamext.FilterNonNil(readings()),
		stream.Empty[*float64]())

	// Start reading right away and share the latest reading with everyone
	// interested in it.
	latest := streamext.PublishAsSingleFuture(ctx, present, streamext.WithLogger(log))

	// Once the readings are done, report a summary line per tick.
	report := streamext.ContinueWith(
		streamext.AsCompletion(latest),
		func() stream.Observable[streamext.Unit] {
			return streamext.ToUnit(stream.Take(3, stream.Interval(clockz.RealClock, 100*time.Millisecond)))
		})

	last, err := stream.First(ctx, latest)
	if err != nil {
		log.Error("No reading", "err", err)
		os.Exit(1)
	}
	fmt.Printf("last reading: %.1f\n", *last)

	err = report.Observe(ctx, func(streamext.Unit) error {
		_, err := fmt.Println("tick")
		return err
	})
	if err != nil {
		log.Error("Report failed", "err", err)
		os.Exit(1)
	}
}
